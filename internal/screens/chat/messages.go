package chat

// replyChunkMsg carries one streamed fragment of the tutor's reply.
type replyChunkMsg struct {
	Text string
}

// replyDoneMsg is sent when a turn ends. Correct is meaningful only when
// Err is nil.
type replyDoneMsg struct {
	Correct bool
	Err     error
}
