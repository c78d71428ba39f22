package trace

import (
	"encoding/json"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"
)

// FormatEvent renders ev as one line; anything but NDJSON renders as text.
func FormatEvent(ev *Event, format Format) []byte {
	if format == FormatNDJSON {
		return ndjsonLine(ev)
	}
	return textLine(ev)
}

type wireEvent struct {
	Time     string            `json:"time"`
	Seq      uint64            `json:"seq"`
	Kind     string            `json:"kind"`
	Scope    string            `json:"scope"`
	SpanID   uint64            `json:"span_id,omitempty"`
	ParentID uint64            `json:"parent_id,omitempty"`
	Name     string            `json:"name"`
	Detail   string            `json:"detail,omitempty"`
	Extra    map[string]string `json:"extra,omitempty"`
}

func ndjsonLine(ev *Event) []byte {
	data, err := json.Marshal(wireEvent{
		Time:     ev.Time.Format(time.RFC3339Nano),
		Seq:      ev.Seq,
		Kind:     ev.Kind.String(),
		Scope:    ev.Scope.String(),
		SpanID:   ev.SpanID,
		ParentID: ev.ParentID,
		Name:     ev.Name,
		Detail:   ev.Detail,
		Extra:    ev.Extra,
	})
	if err != nil {
		return nil
	}
	return append(data, '\n')
}

var kindMarks = [...]string{KindSpanBegin: "> ", KindSpanEnd: "< ", KindPoint: "* ", KindHeartbeat: "~ "}

// textLine renders "#seq [scope] > name (detail) {k=v, ...}". Child events are
// indented by two spaces and extras are sorted by key.
func textLine(ev *Event) []byte {
	var sb strings.Builder
	seq := strconv.FormatUint(ev.Seq, 10)
	sb.WriteString("#" + seq + strings.Repeat(" ", max(0, 6-len(seq))) + " [" + ev.Scope.String() + "] ")
	if ev.ParentID != 0 {
		sb.WriteString("  ")
	}
	if int(ev.Kind) < len(kindMarks) {
		sb.WriteString(kindMarks[ev.Kind])
	}
	sb.WriteString(ev.Name)
	if ev.Detail != "" {
		sb.WriteString(" (" + ev.Detail + ")")
	}
	if len(ev.Extra) > 0 {
		pairs := make([]string, 0, len(ev.Extra))
		for _, k := range slices.Sorted(maps.Keys(ev.Extra)) {
			pairs = append(pairs, k+"="+ev.Extra[k])
		}
		sb.WriteString(" {" + strings.Join(pairs, ", ") + "}")
	}
	sb.WriteByte('\n')
	return []byte(sb.String())
}
