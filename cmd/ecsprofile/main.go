// Profiling:
// go build ./cmd/ecsprofile
// ./ecsprofile -mode mem -rounds 20
// go tool pprof -http=":8000" ./ecsprofile mem.pprof

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pkg/profile"

	"github.com/slotecs/slotecs/internal/component"
	"github.com/slotecs/slotecs/internal/core/ecs"
)

func main() {
	fs := flag.NewFlagSet("ecsprofile", flag.ExitOnError)
	mode := fs.String("mode", "cpu", "profile mode: cpu, mem, or allocs")
	rounds := fs.Int("rounds", 50, "registries to churn")
	iters := fs.Int("iters", 1000, "create/destroy cycles per registry")
	entities := fs.Int("entities", ecs.DefaultMaxEntities, "registry capacity")
	dir := fs.String("out", ".", "profile output directory")
	_ = fs.Parse(os.Args[1:])

	var opt func(*profile.Profile)
	switch *mode {
	case "cpu":
		opt = profile.CPUProfile
	case "mem":
		opt = profile.MemProfile
	case "allocs":
		opt = profile.MemProfileAllocs
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}

	p := profile.Start(opt, profile.ProfilePath(*dir), profile.NoShutdownHook)
	sum, err := run(*rounds, *iters, *entities)
	p.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("checksum %d\n", sum)
}

// run fills each registry to capacity, integrates one component into
// another, then destroys everything so the next cycle recycles every slot.
func run(rounds, iters, capacity int) (int64, error) {
	var sum int64
	ids := make([]ecs.EntityID, 0, capacity)
	for range rounds {
		reg := ecs.NewRegistry(capacity)
		if err := component.Register(reg); err != nil {
			return 0, err
		}
		for range iters {
			ids = ids[:0]
			for i := 0; i < capacity; i++ {
				id, err := reg.CreateEntity()
				if err != nil {
					return 0, err
				}
				if _, err := ecs.SetComponent(reg, id, component.Bar{Int: i}); err != nil {
					return 0, err
				}
				if i%2 == 0 {
					if _, err := ecs.SetComponent(reg, id, component.Transform{X: 1}); err != nil {
						return 0, err
					}
				}
				ids = append(ids, id)
			}
			ecs.Each2(reg, func(_ ecs.EntityID, b *component.Bar, t *component.Transform) {
				sum += int64(b.Int) + int64(t.X)
			})
			for _, id := range ids {
				if err := reg.DestroyEntity(id); err != nil {
					return 0, err
				}
			}
		}
	}
	return sum, nil
}
