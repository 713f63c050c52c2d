// Package language provides ISO 639 lookups and the accepted-code set used
// for policy matching.
package language
