package tips

import "fmt"

/* =================================================================================
								PROMPT TEMPLATE
	Gemini is asked for markdown so every category header and bullet lands on
	its own line; SplitTips relies on that.
=================================================================================*/

// tipCategories are the section headings the model is asked to produce, in order.
var tipCategories = [...]string{
	"Quick Wins (Easy to implement immediately)",
	"Sustainable Living",
	"Transportation & Mobility",
	"Community & Social Impact",
	"Environmental Protection",
}

const tipsPromptTemplate = `
Generate practical and personalized sustainability tips for someone in %[1]s with the following habits: %[2]s.

Format the response in markdown with the following categories:
%[3]s
For each tip:
- Make it specific to %[1]s
- Include cost implications or savings
- Make it actionable and practical
- Consider local resources and infrastructure
- Use bullet points with bold headers

Start each category with a markdown header (##) and number.
Format each tip as a markdown bullet point (*).
Use bold (**) for tip headers.
`

// BuildTipsPrompt returns the instruction sent to Gemini for one request.
// location and habits are embedded verbatim.
func BuildTipsPrompt(location, habits string) string {
	var numbered string
	for i, c := range tipCategories {
		numbered += fmt.Sprintf("%d. %s\n", i+1, c)
	}
	return fmt.Sprintf(tipsPromptTemplate, location, habits, numbered)
}
