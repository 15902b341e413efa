package rag

import "fmt"

// The behavioral steering below is part of the contract with the hosted
// generation model, not business logic. Keep the wording stable: answer
// quality is whatever the external model produces for exactly this text.
const (
	promptPreamble = "You are a biodiversity assistant for Islamabad and the surrounding Margalla Hills region. Answer questions about local wildlife, plants, habitats, and conservation."

	promptInstructions = `Instructions:
- Answer using only the context information provided above.
- If the question is about local biodiversity but the context does not contain enough information to answer it, reply exactly: "` + InsufficientContextAnswer + `"
- If the question is not about wildlife, plants, or biodiversity, reply exactly: "` + OutOfDomainAnswer + `"`

	// InsufficientContextAnswer is the fixed reply for in-domain questions
	// the context cannot support.
	InsufficientContextAnswer = "I don't have enough information in the provided context to answer that question."

	// OutOfDomainAnswer is the fixed refusal for questions outside the
	// biodiversity domain.
	OutOfDomainAnswer = "I can only answer questions about the wildlife and biodiversity of the Islamabad region."
)

// BuildPrompt assembles the full prompt: preamble, retrieved context, the
// verbatim question, and the instruction set.
func BuildPrompt(contextBlock, question string) string {
	return fmt.Sprintf(`%s

Context information about biodiversity in Islamabad:
%s

Question: %s

%s

Answer:`, promptPreamble, contextBlock, question, promptInstructions)
}
