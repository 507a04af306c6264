package ir

// Version is the sqlchain release version. It is reported by
// `sqlchain --version`; fingerprints are versioned separately through
// DomainStatement.
const Version = "0.1.0"
