package treesitter

import "testing"

func BenchmarkParserParallelParse(b *testing.B) {
	parser := New()
	source := []byte(`import { a } from './a';
import b from "../b";
const c = require('./c');

export function handle(): number {
	return a + b + c;
}
`)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			specs, parseErr := parser.ParseImports("bench.ts", source)
			if parseErr != nil {
				b.Fatalf("ParseImports returned error: %v", parseErr)
			}
			if len(specs) != 3 {
				b.Fatalf("expected 3 specifiers, got %v", specs)
			}
		}
	})
}
