package types

type contextKey string

// ClientAppKey is the context key commands use to reach the client App.
const ClientAppKey contextKey = "clientApp"
