package lcd

// Transport transmits rectangles of wire-order pixels to a panel.
//
// Submit sends the pixels of the rectangle (x0,y0)-(x1,y1), end coordinates exclusive, row by
// row. It may return before the transfer completes; it blocks while the transport already holds
// QueueDepth buffers, so the caller must not reuse pix until QueueDepth further Submit calls have
// returned. A transport that copies or transmits synchronously reports a depth of zero.
type Transport interface {
	Submit(x0, y0, x1, y1 int, pix []uint16) error

	// QueueDepth is the number of submitted buffers the transport may still be reading from
	// after Submit returns.
	QueueDepth() int
}

// Waiter is implemented by transports that can drain their in-flight transfers.
type Waiter interface {
	// Wait blocks until every submitted transfer completed, returning the first transfer error.
	Wait() error
}
