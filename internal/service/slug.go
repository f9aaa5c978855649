package service

import (
	"fmt"

	"github.com/gosimple/slug"
)

// uniqueSlug 由标题生成 slug，冲突时依次追加 -2、-3 ...
func uniqueSlug(title string, taken func(string) (bool, error)) (string, error) {
	base := slug.Make(title)
	if base == "" {
		base = "item"
	}

	candidate := base
	for i := 2; ; i++ {
		exists, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}
