// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the execution lifecycle of a pipeline file:
// load, replay into a session, run, report. It is decoupled from any specific
// entrypoint like a CLI or server.
package app
