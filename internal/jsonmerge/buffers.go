package jsonmerge

import "github.com/pgxplain/xplain/internal/model"

// bufferKeys maps PostgreSQL's JSON buffer-statistic property names
// (already composed, unlike the text format's "shared hit=10" form) to
// the (kind, method) pair model.Node.SetBuffer expects.
var bufferKeys = map[string][2]string{
	"Shared Hit Blocks":     {"shared", "hit"},
	"Shared Read Blocks":    {"shared", "read"},
	"Shared Dirtied Blocks": {"shared", "dirtied"},
	"Shared Written Blocks": {"shared", "written"},
	"Local Hit Blocks":      {"local", "hit"},
	"Local Read Blocks":     {"local", "read"},
	"Local Dirtied Blocks":  {"local", "dirtied"},
	"Local Written Blocks":  {"local", "written"},
	"Temp Read Blocks":      {"temp", "read"},
	"Temp Written Blocks":   {"temp", "written"},
}

func isBufferKey(key string) bool {
	_, ok := bufferKeys[key]
	return ok
}

func applyBufferKey(n *model.Node, key string, val any) {
	pair := bufferKeys[key]
	n.SetBuffer(pair[0], pair[1], int64(asFloat(val)))
}
