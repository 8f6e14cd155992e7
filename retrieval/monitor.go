package retrieval

import "github.com/chemtrace/sdsvault/core"

// RetrievalMonitor provides hooks to observe the retrieval process.
// Implement this interface to track intermediate steps and results.
type RetrievalMonitor interface {
	Start(query core.Query)
	AfterFilter(candidates []*core.SectionDocument)
	TermMatched(term string, doc *core.SectionDocument, score float32)
	TermUnmatched(term string)
	Finish(result *core.Result)
}

// noopMonitor is a no-op implementation of RetrievalMonitor
type noopMonitor struct{}

var _ RetrievalMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ core.Query)                                     {}
func (n *noopMonitor) AfterFilter(_ []*core.SectionDocument)                  {}
func (n *noopMonitor) TermMatched(_ string, _ *core.SectionDocument, _ float32) {}
func (n *noopMonitor) TermUnmatched(_ string)                                 {}
func (n *noopMonitor) Finish(_ *core.Result)                                  {}
