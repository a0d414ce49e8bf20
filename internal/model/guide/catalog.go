package guide

// Panel is a static informational block shown next to the chat.
type Panel struct {
	ID      string   `json:"id"`
	Heading string   `json:"heading"`
	Body    string   `json:"body"`
	Items   []string `json:"items,omitempty"`
	Style   string   `json:"style,omitempty"` // "info" renders highlighted
}

// Page holds the fixed copy of the assistant's front page.
type Page struct {
	Title            string `json:"title"`
	Intro            string `json:"intro"`
	Brand            string `json:"brand"`
	InputPlaceholder string `json:"inputPlaceholder"`
	Footer           string `json:"footer"`
}

// SeedPage returns the page copy for the Gujarat citizen services guide.
func SeedPage() Page {
	return Page{
		Title: "Your Guide: Gujarat Government Services",
		Intro: "Hello! I'm here to help you navigate Gujarat's government schemes, " +
			"certificates, and public services across various districts and cities. Just ask me a question!",
		Brand:            "CitizenConnect Gujarat",
		InputPlaceholder: "Ask about schemes, certificates, or services across Gujarat...",
		Footer: "This chatbot is for informational purposes only. For official information, " +
			"please refer to government websites or departments.",
	}
}

// SeedPanels provides the sidebar panels.
func SeedPanels() []Panel {
	return []Panel{
		{
			ID:      "about",
			Heading: "CitizenConnect Gujarat",
			Body:    "AI-powered assistant providing clear, actionable information on Gujarat government schemes and citizen services.",
		},
		{
			ID:      "sdg",
			Heading: "UN SDG Alignment",
			Body:    "This project primarily aligns with:",
			Items: []string{
				"Goal 16: Peace, Justice and Strong Institutions - ensure public access to information and protect fundamental freedoms.",
				"Goal 10: Reduced Inequalities - reduce inequality within and among countries.",
			},
		},
		{
			ID:      "impact",
			Heading: "Why it matters",
			Body: "By simplifying access to government information, CitizenConnect Gujarat empowers citizens, " +
				"fosters transparency, and ensures that essential services reach everyone, " +
				"contributing to a more equitable and informed society.",
			Style: "info",
		},
	}
}

// SeedSuggestions provides the four quick-suggestion questions.
func SeedSuggestions() []string {
	return []string{
		"How can I apply for a new ration card in Gujarat?",
		"What are the benefits of the Mukhyamantri Amrutam Yojana?",
		"Tell me about the process for obtaining a domicile certificate in Gujarat.",
		"Where can I find information on agricultural schemes in Gujarat?",
	}
}
