// Package scan drives the verification run: it walks each configured
// library file by file, probes and judges every file against the language
// policy, and carries out or simulates the re-acquisition that flagged
// files need.
package scan
