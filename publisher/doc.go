// Package publisher posts comparison reports to GitHub pull requests.
//
// Each pull request carries at most one report comment, keyed on the
// markdown report header. Publishing updates the existing comment when one
// is found and creates it otherwise, so repeated CI runs never pile up
// duplicate comments.
package publisher
