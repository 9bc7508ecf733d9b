package redis

import "strings"

// Every key lives under "jc:<kind>:...". Blank parts are dropped.
const namespace = "jc"

func joinKey(kind string, parts ...string) string {
	var b strings.Builder
	b.WriteString(namespace)
	b.WriteByte(':')
	b.WriteString(kind)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}

func (c *Client) IdempotencyKey(scope, id string) string { return joinKey("idempotency", scope, id) }

func (c *Client) CounterKey(name string) string { return joinKey("counter", name) }

// CartSnapshotKey is the single key holding a session's cart.
func (c *Client) CartSnapshotKey(sessionID string) string { return joinKey("cart", sessionID) }

func (c *Client) CatalogKey(parts ...string) string { return joinKey("catalog", parts...) }

func (c *Client) LockKey(name string) string { return joinKey("lock", name) }
