// package spotify implements the remote catalog API boundary: token
// lifecycle, resilient single requests, and cursor pagination.
//
// Response types are based on
// https://developer.spotify.com/documentation/web-api/reference/
// Required keys are modeled as pointer fields so that a missing key is
// distinguishable from a zero value downstream.
package spotify
