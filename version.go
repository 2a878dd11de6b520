package skemodel

// Version is the module release reported by the CLI.
const Version = "v0.1.0"
