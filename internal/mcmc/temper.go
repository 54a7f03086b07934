package mcmc

import (
	"context"
	"io"
	"log/slog"
	"math"
	"math/rand"

	"golang.org/x/sync/errgroup"

	"github.com/Brian-Yee/montecarlo-sudoku/internal/board"
)

// Temper runs parallel tempering: one replica per schedule temperature, each
// stepped independently on its own goroutine between swap barriers. At every
// barrier a single coordinator walks the adjacent temperature pairs and
// exchanges whole boards with probability min(1, exp((1/Ti − 1/Tj)(Ei − Ej))),
// letting low-energy states diffuse toward the cold end without hand-tuned
// temperatures. The run ends when any replica reaches energy zero, the
// per-replica step budget is spent, or ctx is cancelled.
func Temper(ctx context.Context, b *board.Board, opts *Options, logger *slog.Logger) (*board.Board, int, int64, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	schedule := opts.Schedule
	if len(schedule) == 0 {
		schedule = DefaultSchedule(4, 0.1, 0.8)
	}

	seed := opts.seed()
	reps := make([]*replica, len(schedule))
	for i, temp := range schedule {
		rep, err := newReplica(b, temp, rand.New(rand.NewSource(seed+int64(i))))
		if err != nil {
			return nil, 0, 0, err
		}
		reps[i] = rep
	}
	coordRng := rand.New(rand.NewSource(seed + int64(len(reps))))

	var steps int64
	for {
		if rep := coldestSolved(reps); rep != nil {
			return rep.board, 0, steps, nil
		}
		if opts.MaxSteps > 0 && steps >= opts.MaxSteps {
			break
		}
		if ctx.Err() != nil {
			break
		}

		interval := opts.SwapInterval
		if interval <= 0 {
			interval = 1
		}
		if opts.MaxSteps > 0 && steps+interval > opts.MaxSteps {
			interval = opts.MaxSteps - steps
		}

		// Replicas are strictly partitioned between the barriers: each
		// goroutine mutates only its own board, so no locks are needed.
		g, gctx := errgroup.WithContext(ctx)
		for _, rep := range reps {
			rep := rep
			g.Go(func() error {
				for k := int64(0); k < interval && rep.energy != 0; k++ {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					rep.step()
				}
				return nil
			})
		}
		// Cancellation surfaces at the next loop head; partial intervals
		// still leave every replica board complete and block-consistent.
		_ = g.Wait()
		steps += interval

		for i := 0; i+1 < len(reps); i++ {
			lo, hi := reps[i], reps[i+1]
			p := exchangeProbability(lo.temp, hi.temp, lo.energy, hi.energy)
			if p >= 1 || coordRng.Float64() < p {
				lo.board, hi.board = hi.board, lo.board
				lo.energy, hi.energy = hi.energy, lo.energy
			}
		}

		logger.Debug("tempering barrier",
			"steps", steps,
			"coldest", reps[0].energy,
			"hottest", reps[len(reps)-1].energy,
		)
	}

	best := reps[0]
	for _, rep := range reps[1:] {
		if rep.energy < best.energy {
			best = rep
		}
	}
	return best.board, best.energy, steps, nil
}

// coldestSolved returns the lowest-temperature replica at energy zero, if any.
func coldestSolved(reps []*replica) *replica {
	for _, rep := range reps {
		if rep.energy == 0 {
			return rep
		}
	}
	return nil
}

// exchangeProbability is the replica-exchange acceptance for an adjacent
// pair, with tLow < tHigh. Equal energies always exchange: the proposal is
// symmetric in the two replicas' roles.
func exchangeProbability(tLow, tHigh float64, eLow, eHigh int) float64 {
	return math.Exp((1/tLow - 1/tHigh) * float64(eLow-eHigh))
}
