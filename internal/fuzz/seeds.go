package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB — ограничение для тестового корпуса
)

// languageSeeds covers the checked surface: declarations, annotations,
// generics, modules, interfaces and the usual breakage around them.
var languageSeeds = []string{
	"",
	"let x: number = 1;\n",
	"const greeting: string = \"hello\";\n",
	"function add(a: number, b: number): number { return a + b; }\n",
	"export function id<T>(value: T): T { return value; }\n",
	"interface Point { x: number; y: number; }\n",
	"type Pair<A, B> = { first: A; second: B };\n",
	"import { helper } from \"./util\";\nexport const v = helper(1);\n",
	"let xs: number[] = [1, 2, 3];\nfor (const x of xs) { console.log(x); }\n",
	"const f = (x: number): string => `${x}`;\n",
	"let u: string | number | undefined;\n",
	"function opt(a?: number) { return a; }\n",
	// намеренно сломанные входы
	"let x: = 1;\n",
	"let x = 1\nlet y = 2;\n",
	"function f( {\n",
	"interface { x }\n",
	"type = number;\n",
	"import from \"./a\";\n",
	"let s = \"unterminated;\n",
	"{ { { { } } }\n",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, seed := range languageSeeds {
		f.Add([]byte(seed))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.ts файлы
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".ts" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
