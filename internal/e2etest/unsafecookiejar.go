package e2etest

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/myrjola/learnpref/internal/errors"
)

type unsafeCookieJar struct {
	jar *cookiejar.Jar
}

// newUnsafeCookieJar returns a [http.CookieJar] that ignores the Secure flag so that session and CSRF cookies
// survive plain HTTP test servers.
func newUnsafeCookieJar() (*unsafeCookieJar, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "new cookie jar")
	}

	return &unsafeCookieJar{jar: jar}, nil
}

func (u *unsafeCookieJar) SetCookies(url *url.URL, cookies []*http.Cookie) {
	for _, cookie := range cookies {
		cookie.Secure = false
	}
	u.jar.SetCookies(url, cookies)
}

func (u *unsafeCookieJar) Cookies(url *url.URL) []*http.Cookie {
	return u.jar.Cookies(url)
}
