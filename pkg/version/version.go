package version

// Version is overridden at build time via ldflags for releases.
var Version = "0.1.0"
