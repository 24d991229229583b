// Package stage implements the pipeline stage runners. Each runner consumes
// the artifacts of its predecessors from the stage context, drives the
// generator, and persists its own artifact to the project workspace before
// returning.
package stage

import (
	"github.com/vibeworks/forge/internal/engine"
)

// RegisterAll registers every stage runner with the coordinator.
func RegisterAll(c *engine.Coordinator) {
	c.RegisterStage(&Plan{})
	c.RegisterStage(&Architecture{})
	c.RegisterStage(&Frontend{})
	c.RegisterStage(&Backend{})
	c.RegisterStage(&AI{})
	c.RegisterStage(&Docs{})
	c.RegisterStage(&Finalize{})
}
