package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/learnpref/internal/e2etest"
	"github.com/myrjola/learnpref/internal/errors"
	"github.com/myrjola/learnpref/internal/logging"
)

// firstOptions picks the first option of every question on the questionnaire page.
func firstOptions(doc *goquery.Document) url.Values {
	values := url.Values{}
	doc.Find("form[action='/results'] fieldset").Each(func(_ int, s *goquery.Selection) {
		input := s.Find("input[type=radio]").First()
		values.Set(input.AttrOr("name", ""), input.AttrOr("value", ""))
	})
	return values
}

func TestSurvey(ctx context.Context, client *e2etest.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	doc, err := client.GetDoc(ctx, "/")
	if err != nil {
		return errors.Wrap(err, "get questionnaire")
	}
	values := firstOptions(doc)
	last := doc.Find("form[action='/results'] fieldset").Last().Find("input[type=radio]").AttrOr("name", "")
	if len(values) == 0 || last == "" {
		return errors.New("questionnaire has no questions")
	}

	incomplete := url.Values{}
	for name, v := range values {
		if name != last {
			incomplete[name] = v
		}
	}
	var status int
	if doc, status, err = client.SubmitForm(ctx, "/", "/results", incomplete); err != nil {
		return errors.Wrap(err, "submit incomplete survey")
	}
	if status != http.StatusUnprocessableEntity || doc.Find(".warning").Length() != 1 {
		return errors.New("incomplete survey was not rejected", slog.Int("status", status))
	}

	if doc, status, err = client.SubmitForm(ctx, "/", "/results", values); err != nil {
		return errors.Wrap(err, "submit complete survey")
	}
	primary := strings.TrimSpace(doc.Find("h3.primary").Text())
	if status != http.StatusOK || !strings.HasPrefix(primary, "Primary preference:") {
		return errors.New("complete survey was not scored", slog.Int("status", status))
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	var (
		hostname = os.Args[1]
		baseURL  = "https://" + hostname
		client   *e2etest.Client
		err      error
	)
	ctx = logging.WithAttrs(ctx, slog.String("hostname", baseURL))

	if client, err = e2etest.NewClient(baseURL); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error creating client", errors.SlogError(err))
		os.Exit(1)
	}
	if err = TestSurvey(ctx, client); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "error testing survey", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
}
