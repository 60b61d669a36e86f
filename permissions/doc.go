// Package permissions holds the staff role catalog, the static permission
// table and the role hierarchy, and answers authorization questions against
// them.
//
// The table is built once at startup (see DefaultTable) and never mutated
// afterwards, so an Evaluator can be shared by every request without locking.
package permissions
