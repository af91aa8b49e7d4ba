package ai

// IsReasoningModelForTest exposes isReasoningModel to the external test package.
func IsReasoningModelForTest(p *OpenAIProvider) bool {
	return p.isReasoningModel()
}

// StripCodeFenceForTest exposes stripCodeFence.
var StripCodeFenceForTest = stripCodeFence
