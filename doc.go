// Package hsmsnap runs hierarchical state machines and projects their
// active configuration into compact snapshot words.
//
// A Chart describes one machine type as a tree of states under an implicit
// top. Compile lowers it into a shared, immutable Model; NewMachine makes
// running instances that dispatch events and answer membership queries. A
// Layout pins states to bits of a 64-bit word, and a Projector folds a
// machine's configuration into that word, one bit per active state, so a
// whole hierarchy fits in a single log field or assertion argument.
//
// # Example
//
//	b := hsmsnap.NewChartBuilder("blinky", "off")
//	b.State("off").On("TIMEOUT", "on")
//	b.State("on").On("TIMEOUT", "off")
//	chart, _ := b.Build()
//
//	model, _ := chart.Compile()
//	m := hsmsnap.NewMachine(model)
//	_ = m.Start(ctx)
//
//	layout, _ := hsmsnap.DeriveLayout(model.Tree())
//	p, _ := hsmsnap.NewProjector(model, layout)
//	word, _ := p.Project(m) // 0b01 while off, 0b10 while on
//
// # Membership
//
// A machine is in every state on the chain from each region's active leaf
// up to the top. IsIn answers that for one state, Tree.Ancestors exposes
// the chain, ActiveStates the whole set. Composite membership is what
// makes the word legible: while in "on.idle" the word carries both the
// "on" bit and the "on.idle" bit.
//
// # Concurrency
//
// Start and Dispatch must be serialized by the caller; a machine does not
// queue events. Queries (IsIn, Current, Configuration, Project) are safe
// from any goroutine and always see a committed configuration, never a
// half-applied transition.
package hsmsnap
