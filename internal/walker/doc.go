// Package walker implements the traversal filter: a lazy depth-first walk of a
// directory tree that prunes subtrees which can never hold a project worth
// cleaning.
//
// # Pruning
//
// An entry is pruned (not yielded and not descended into) when any Rule in
// the Filter rejects it. DefaultFilter carries:
//   - files and other non-directories
//   - symbolic links, which are never followed so cyclic links terminate
//   - hidden directories (name starts with ".")
//   - platform bundles, e.g. ".app" and ".rtfd" on macOS
//
// Platform rules are registered from build-tagged files, so adding another
// platform's equivalent does not touch the walk itself.
//
// # Errors
//
// A directory that cannot be read is yielded together with a *TraversalError
// and the walk carries on with its siblings. Only the walk root failing to
// exist stops everything, and callers are expected to check the root first.
//
// # Usage
//
//	for entry, err := range walker.Walk(root, walker.DefaultFilter()) {
//	    if err != nil {
//	        log.LogWarn(err.Error())
//	        continue
//	    }
//	    // inspect entry's children
//	}
package walker
