package main

import (
	"net/http"
	"time"
)

const timeoutBody = `<html lang="en">
<head><title>Timeout</title></head>
<body>
<h1>Timeout</h1>
<p>The server took too long to respond.</p>
<p><a href="/">Back to the questionnaire</a></p>
</body>
</html>
`

// timeoutHandler responds with 503 Service Unavailable when h does not finish in time.
//
// The deadline is half a second shorter than serverTimeout so that the reply is written before the server closes
// the connection.
func timeoutHandler(h http.Handler, serverTimeout time.Duration) http.Handler {
	return http.TimeoutHandler(h, serverTimeout-500*time.Millisecond, timeoutBody) //nolint:mnd // 500ms
}
