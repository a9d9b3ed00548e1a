package classifier

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"paperdex/internal/domain"
)

// SampleChars bounds how much of the document is shown to the model.
const SampleChars = 4000

const systemPrompt = "Given the candidate topics, choose the best fitting ones for the paper content. " +
	"Return a comma separated list of topics from the provided options only."

// Chat is the chat-completion boundary used for classification.
type Chat interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Classifier picks topics for a paper from a candidate list. It asks the
// chat model first and falls back to keyword counting.
type Classifier struct {
	chat Chat
}

// New returns a Classifier. chat may be nil, in which case only the
// keyword fallback is used.
func New(chat Chat) *Classifier {
	return &Classifier{chat: chat}
}

// Classify always returns at least one topic.
func (c *Classifier) Classify(ctx context.Context, pages []string, candidates []string) []string {
	if len(candidates) == 0 {
		return []string{domain.Uncategorized}
	}
	sample := Sample(pages)

	if c.chat != nil {
		topics, err := c.ask(ctx, sample, candidates)
		if err == nil && len(topics) > 0 {
			return topics
		}
		if err != nil {
			slog.WarnContext(ctx, "topic classification failed, using keyword fallback", "err", err)
		} else {
			slog.WarnContext(ctx, "classifier returned no known topics, using keyword fallback")
		}
	}
	return []string{KeywordMatch(sample, candidates)}
}

func (c *Classifier) ask(ctx context.Context, sample string, candidates []string) ([]string, error) {
	user := fmt.Sprintf("Topics: %s\n\nPaper content preview:\n%s", strings.Join(candidates, ", "), sample)
	answer, err := c.chat.Complete(ctx, systemPrompt, user)
	if err != nil {
		return nil, err
	}
	return ParseTopics(answer, candidates), nil
}

// ParseTopics keeps the comma separated entries of answer that exactly
// match a candidate, in the order the model gave them.
func ParseTopics(answer string, candidates []string) []string {
	known := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		known[c] = struct{}{}
	}
	var out []string
	for _, part := range strings.Split(answer, ",") {
		t := strings.TrimSpace(part)
		if _, ok := known[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// KeywordMatch returns the candidate occurring most often in sample,
// ignoring case. Ties, including all-zero counts, go to the earliest
// candidate.
func KeywordMatch(sample string, candidates []string) string {
	if len(candidates) == 0 {
		return domain.Uncategorized
	}
	lower := strings.ToLower(sample)
	type scored struct {
		topic string
		count int
	}
	scores := make([]scored, len(candidates))
	for i, c := range candidates {
		n := 0
		if needle := strings.ToLower(c); needle != "" {
			n = strings.Count(lower, needle)
		}
		scores[i] = scored{topic: c, count: n}
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].count > scores[j].count })
	return scores[0].topic
}

// Sample joins pages with a space and keeps the first SampleChars characters.
func Sample(pages []string) string {
	return truncateRunes(strings.Join(pages, " "), SampleChars)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
