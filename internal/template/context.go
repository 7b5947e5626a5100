package template

// Context holds the values a title template can reference.
type Context struct {
	// Iteration is the 1-based loop iteration.
	Iteration int
	// RunID identifies the daemon run.
	RunID string
	// Resource is the resource the token was requested for.
	Resource string
	// Extra holds additional values; keys collide with nothing above.
	Extra map[string]interface{}
}

func (c Context) values() map[string]interface{} {
	return MergeContexts(c.Extra, map[string]interface{}{
		"Iteration": c.Iteration,
		"RunID":     c.RunID,
		"Resource":  c.Resource,
	})
}

// MergeContexts merges multiple contexts into a single context
// Later contexts override values from earlier contexts
func MergeContexts(contexts ...map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{})

	for _, ctx := range contexts {
		for key, value := range ctx {
			result[key] = value
		}
	}

	return result
}
