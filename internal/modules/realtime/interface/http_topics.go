package transport

import (
	"strings"

	domain "storefrontWs/internal/modules/realtime/domain"
	"storefrontWs/internal/shared/normalization"
)

// resolveTopics returns the session topics followed by the comma separated extras,
// deduplicated and in first-seen order.
func resolveTopics(extra string) []string {
	base := domain.SessionTopics()
	topics := make([]string, 0, len(base)+4)
	seen := make(map[string]struct{}, len(base)+4)
	add := func(topic string) {
		topic = strings.ToLower(strings.TrimSpace(topic))
		if topic == "" {
			return
		}
		if _, exists := seen[topic]; exists {
			return
		}
		seen[topic] = struct{}{}
		topics = append(topics, topic)
	}
	for _, topic := range base {
		add(topic)
	}
	for _, topic := range strings.Split(extra, ",") {
		add(normalizeTopic(topic))
	}
	return topics
}

// normalizeTopic accepts "<entity>.<action>" and maps singular entity names to their canonical plural.
func normalizeTopic(raw string) string {
	entity, action, found := strings.Cut(strings.ToLower(strings.TrimSpace(raw)), ".")
	if !found {
		return ""
	}
	return domain.CustomTopic(normalizeEntity(entity), action)
}

func normalizeEntity(raw string) string {
	return normalization.NormalizeEntity(raw)
}
