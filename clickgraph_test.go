package clickgraph

import (
	"context"
	"strings"
	"testing"

	"github.com/clickgraph/clickgraph/internal/fixtures"
)

func TestTranslateTopLevelEntryPoint(t *testing.T) {
	res, err := Translate(context.Background(), `MATCH (u:User) RETURN u.name`, fixtures.SocialGraph(), nil, nil, DefaultConfig)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if !strings.Contains(res.SQL, "full_name") {
		t.Fatalf("got %q", res.SQL)
	}
}
