// Package github talks to the GitHub API on behalf of ghtt. It wraps
// the REST client behind the SourceControlClient interface and
// implements reconciliation of declarative issue/milestone sets
// against the remote state of a repository.
//
// The package includes:
// - SourceControlClient interface for API operations
// - Reconciler for planning and applying issue/milestone convergence
// - Desired-state parsing for rendered YAML documents
// - A structured error taxonomy for API failures
package github
