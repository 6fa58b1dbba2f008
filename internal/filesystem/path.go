package filesystem

import (
	"fmt"
	"path"
	"strings"
)

// Path is a location on a filesystem, split into the scheme selecting the
// implementation, the authority selecting the instance (host, bucket, ...)
// and the name of the file or directory on that instance.
type Path struct {
	Scheme    string
	Authority string
	Name      string
}

// ParsePath parses a URI-like string such as hdfs://namenode:8020/a/b,
// file:///tmp/a.txt, s3://bucket/key or a bare /tmp/a.txt into a [Path].
// Bare paths keep an empty scheme until they are qualified.
func ParsePath(raw string) (*Path, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyPath
	}

	scheme, rest, hasScheme := splitScheme(raw)
	if !hasScheme {
		return &Path{Name: cleanName(raw)}, nil
	}

	p := &Path{Scheme: strings.ToLower(scheme)}

	if authorityAndName, ok := strings.CutPrefix(rest, "//"); ok {
		authority, name, found := strings.Cut(authorityAndName, "/")
		p.Authority = authority
		if found {
			p.Name = "/" + name
		}
	} else {
		p.Name = rest
	}

	if p.Name == "" {
		p.Name = "/"
	}
	p.Name = cleanName(p.Name)

	if !strings.HasPrefix(p.Name, "/") {
		return nil, fmt.Errorf("(fs-path) %w: %s", ErrRelativeURI, raw)
	}

	return p, nil
}

// Qualify returns the path with scheme and authority taken from defaultFS,
// if the path does not carry a scheme of its own. Only absolute bare paths
// can be qualified.
func (p *Path) Qualify(defaultFS string) (*Path, error) {
	if p.Scheme != "" {
		return p, nil
	}

	if !strings.HasPrefix(p.Name, "/") {
		return nil, fmt.Errorf("(fs-path) %w: %s", ErrRelativeURI, p.Name)
	}

	def, err := ParsePath(defaultFS)
	if err != nil {
		return nil, fmt.Errorf("(fs-path) invalid default filesystem: %w", err)
	}
	if def.Scheme == "" {
		return nil, fmt.Errorf("(fs-path) %w: %s", ErrNoDefaultScheme, defaultFS)
	}

	return &Path{
		Scheme:    def.Scheme,
		Authority: def.Authority,
		Name:      p.Name,
	}, nil
}

func (p *Path) String() string {
	if p.Scheme == "" {
		return p.Name
	}

	return p.Scheme + "://" + p.Authority + p.Name
}

// splitScheme separates a leading "scheme:" from raw. A scheme has to start
// with a letter and consist of letters, digits, '+', '-' and '.' only.
func splitScheme(raw string) (string, string, bool) {
	scheme, rest, found := strings.Cut(raw, ":")
	if !found || scheme == "" || strings.Contains(scheme, "/") {
		return "", raw, false
	}

	for i, r := range scheme {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return "", raw, false
		}
	}

	return scheme, rest, true
}

func cleanName(name string) string {
	cleaned := path.Clean(name)
	if cleaned == "." {
		return name
	}

	return cleaned
}
