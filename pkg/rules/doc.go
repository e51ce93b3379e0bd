// Package rules manipulates Request Control rule documents as generic JSON
// objects.
//
// Documents stay map-based rather than struct-based on purpose: user-supplied
// files may carry fields this tool does not know about, and those must survive
// a download-edit-resubmit round trip untouched. The package provides the
// built-in rule template, merging of user-supplied attributes over a base
// document, stripping of server-assigned fields before resubmission, and
// presence-only validation.
package rules
