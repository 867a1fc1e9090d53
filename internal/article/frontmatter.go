package article

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/keithlinneman/linnemanlabs-blog/internal/xerrors"
)

type fmFormat int

const (
	fmNone fmFormat = iota
	fmYAML
	fmTOML
)

var bom = []byte("\xef\xbb\xbf")

// splitFrontMatter separates a leading fenced block from the markdown body.
// The opening fence must be the first line; the closing fence is the next
// line consisting only of the same fence.
func splitFrontMatter(src []byte) (fmFormat, []byte, []byte, error) {
	src = bytes.TrimPrefix(src, bom)

	first, rest, _ := cutLine(src)
	var format fmFormat
	switch string(bytes.TrimRight(first, " \t")) {
	case "---":
		format = fmYAML
	case "+++":
		format = fmTOML
	default:
		return fmNone, nil, src, nil
	}
	fence := bytes.TrimRight(first, " \t")

	start := rest
	for len(rest) > 0 {
		line, next, _ := cutLine(rest)
		if bytes.Equal(bytes.TrimRight(line, " \t"), fence) {
			head := start[:len(start)-len(rest)]
			return format, head, next, nil
		}
		rest = next
	}
	return fmNone, nil, nil, xerrors.Newf("unterminated %s front matter", fence)
}

// cutLine returns the first line of b without its terminator and the rest.
func cutLine(b []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}

func parseFrontMatter(src []byte) (Metadata, []byte, error) {
	format, head, body, err := splitFrontMatter(src)
	if err != nil {
		return Metadata{}, nil, err
	}

	raw := map[string]any{}
	switch format {
	case fmNone:
		return Metadata{}, body, nil
	case fmYAML:
		if err := yaml.Unmarshal(head, &raw); err != nil {
			return Metadata{}, nil, xerrors.Wrap(err, "decode yaml front matter")
		}
	case fmTOML:
		if err := toml.Unmarshal(head, &raw); err != nil {
			return Metadata{}, nil, xerrors.Wrap(err, "decode toml front matter")
		}
	}

	m, err := metadataFrom(raw)
	if err != nil {
		return Metadata{}, nil, err
	}
	return m, body, nil
}

func metadataFrom(raw map[string]any) (Metadata, error) {
	var m Metadata
	var err error

	m.Title = scalarString(raw["title"])
	m.Author = scalarString(raw["author"])
	m.Description = scalarString(raw["description"])

	if m.Tags, err = tagsFrom(raw["tags"]); err != nil {
		return Metadata{}, err
	}
	m.Created, m.CreatedRaw = dateField(raw["created"])
	m.Modified, m.ModifiedRaw = dateField(raw["modified"])
	return m, nil
}

func scalarString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

// tagsFrom accepts a list or a single comma separated string.
func tagsFrom(v any) ([]string, error) {
	var tags []string
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		for _, t := range strings.Split(x, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	case []any:
		for _, e := range x {
			if t := strings.TrimSpace(scalarString(e)); t != "" {
				tags = append(tags, t)
			}
		}
	case []string:
		for _, t := range x {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	default:
		return nil, xerrors.Newf("tags: unsupported type %T", v)
	}
	return tags, nil
}

// dateField reads an author date. A value that does not parse is kept
// verbatim in the returned string and the time is left zero.
func dateField(v any) (time.Time, string) {
	t, err := dateFrom(v)
	if err != nil {
		return time.Time{}, strings.TrimSpace(scalarString(v))
	}
	return t, ""
}

func dateFrom(v any) (time.Time, error) {
	switch x := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return x, nil
	case toml.LocalDate:
		return x.AsTime(time.UTC), nil
	case toml.LocalDateTime:
		return x.AsTime(time.UTC), nil
	case string:
		if strings.TrimSpace(x) == "" {
			return time.Time{}, nil
		}
		t, err := dateparse.ParseIn(x, time.UTC)
		if err != nil {
			return time.Time{}, xerrors.Wrapf(err, "parse date %q", x)
		}
		return t, nil
	case int:
		return dateFrom(strconv.Itoa(x))
	case int64:
		return dateFrom(strconv.FormatInt(x, 10))
	default:
		return time.Time{}, xerrors.Newf("unsupported date type %T", v)
	}
}
