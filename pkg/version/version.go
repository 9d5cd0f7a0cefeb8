package version

// Version is the trailsroc tool version.
const Version = "v0.5.0"
