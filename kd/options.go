package kd

import (
	"strconv"
	"strings"
)

const (
	defaultIndexKind = "auto"
	// autoTreeMinPoints is the dataset size from which index=auto builds a k-d tree.
	autoTreeMinPoints = 64
)

type indexOptions struct {
	kind           string
	bruteForce     int
	haveBruteForce bool
	cacheEntries   int
}

func parseIndexOptions(args []string) indexOptions {
	opts := indexOptions{kind: defaultIndexKind}
	for _, raw := range args {
		a := strings.TrimSpace(raw)
		if a == "" {
			continue
		}
		parts := strings.SplitN(a, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(parts[0]))
		val := strings.Trim(strings.TrimSpace(parts[1]), `'"`)
		switch key {
		case "index":
			switch strings.ToLower(val) {
			case "kd", "brute", "auto":
				opts.kind = strings.ToLower(val)
			}
		case "brute_force":
			if n, err := strconv.Atoi(val); err == nil && n >= 0 {
				opts.bruteForce = n
				opts.haveBruteForce = true
			}
		case "cache":
			if n, err := strconv.Atoi(val); err == nil && n > 0 {
				opts.cacheEntries = n
			}
		}
	}
	return opts
}

func (o indexOptions) resolveKind(points int) string {
	switch o.kind {
	case "kd", "brute":
		return o.kind
	}
	if points >= autoTreeMinPoints {
		return "kd"
	}
	return "brute"
}
