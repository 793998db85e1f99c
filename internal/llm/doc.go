// Package llm provides the external classification collaborator used to
// analyze scanned files. It supports multiple providers including Gemini,
// OpenAI and Anthropic behind a single Client interface. Responses must
// conform to the documented JSON schema; there is no retry and no streaming.
package llm
