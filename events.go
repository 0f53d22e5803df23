package realip

const (
	eventInvalidHeader     = "invalid_header"
	eventInvalidRemoteAddr = "invalid_remote_addr"
)
