package telegram

import (
	"time"

	tele "gopkg.in/telebot.v4"
)

// BuildPoller returns a long poller with the provided timeout, falling back to
// a 10 second default when the timeout is not positive.
func BuildPoller(timeout time.Duration) tele.Poller {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &tele.LongPoller{Timeout: timeout}
}
