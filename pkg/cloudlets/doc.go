// Package cloudlets is a typed client for the Akamai Cloudlets v2
// policy-management API.
//
// The client wraps net/http with EdgeGrid request signing and exposes the
// policy, version, activation, and rule operations the CLI needs. Every API
// call is a single HTTP attempt; there is no retry or backoff. API failures
// are returned as *APIError when the service sends a structured problem
// document, and as plain errors otherwise.
package cloudlets
