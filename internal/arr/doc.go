// Package arr talks to Sonarr- and Radarr-style library management APIs and
// presents both behind one Library capability interface so the verification
// pipeline is written once for either kind.
package arr
