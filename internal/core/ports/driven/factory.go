package driven

// ConnectorBuilder creates a Connector reading the files under root that
// match glob. Ingestion builds one connector per run.
type ConnectorBuilder func(root, glob string) (Connector, error)
