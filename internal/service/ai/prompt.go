package ai

import "fmt"

// FallbackAnswer is stored as the assistant turn whenever the model fails.
const FallbackAnswer = "I'm sorry, I couldn't process your request right now. Please try again later."

const noticeFormat = "Apologies, an error occurred: %v. Please try again."

const guidePromptFormat = `You are a helpful and clear chatbot specializing in providing step-by-step guidance about government schemes and citizen services across **Gujarat, India**. Your responses should be easy to understand for the average citizen, actionable, and concise. If the question is outside the scope of Gujarat government services, kindly state that you can only assist with Gujarat-related government queries.

User Question: %s

Chatbot Answer:`

// BuildPrompt embeds the user's raw question into the fixed instruction.
func BuildPrompt(question string) string {
	return fmt.Sprintf(guidePromptFormat, question)
}

// Notice renders the user-visible error line for a failed call.
func Notice(err error) string {
	return fmt.Sprintf(noticeFormat, err)
}
