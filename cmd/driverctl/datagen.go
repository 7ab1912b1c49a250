package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

type datagenOptions struct {
	rows int
	seed int64
	out  string
}

func newDatagenCmd() *cobra.Command {
	opts := datagenOptions{
		rows: 500,
		seed: 42,
		out:  "export.csv",
	}

	cmd := &cobra.Command{
		Use:   "datagen",
		Short: "Generate a synthetic behavioral export for testing the pipeline",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDatagen(opts)
		},
	}

	cmd.Flags().IntVarP(&opts.rows, "rows", "n", opts.rows, "Number of user rows to generate")
	cmd.Flags().Int64Var(&opts.seed, "seed", opts.seed, "Random seed for reproducible output")
	cmd.Flags().StringVarP(&opts.out, "out", "o", opts.out, "Output CSV path")

	return cmd
}

var datagenHeader = []string{
	"userId", "totalCopies", "totalDeposits", "totalSubscriptions",
	"activeSubscriptions", "hasLinkedBank", "totalSessions", "totalScreenViews",
	"totalProfileViews", "totalPortfolioViews", "totalFeedViews", "totalVideoViews",
	"timeToFirstCopy", "daysSinceSignup", "totalDepositAmount",
	"gender", "ageBracket", "incomeBracket", "netWorthBracket",
	"experienceLevel", "platform",
}

var (
	datagenGenders    = []string{"male", "female", "other", ""}
	datagenAges       = []string{"18-24", "25-34", "35-44", "45-54", "55+"}
	datagenIncomes    = []string{"less than $25,000", "$25,000 - $49,999", "$50,000 - $74,999", "$75,000 - $99,999", "$100,000 - $149,999", "$150,000 - $199,999", "$200,000+"}
	datagenNetWorths  = []string{"<$10k", "$10k-$50k", "$50k-$100k", "$100k-$250k", "$250k-$500k", "$500k-$1m", "$1m+"}
	datagenExperience = []string{"beginner", "intermediate", "advanced"}
	datagenPlatforms  = []string{"ios", "android", "web"}
)

// runDatagen writes rows whose engagement counters correlate loosely with
// conversion outcomes, so the analysis produces non-trivial drivers.
func runDatagen(opts datagenOptions) error {
	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(datagenHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	rng := rand.New(rand.NewSource(opts.seed))
	for i := 0; i < opts.rows; i++ {
		if err := w.Write(datagenRow(rng, i)); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	fmt.Printf("wrote %d rows to %s\n", opts.rows, opts.out)
	return nil
}

func datagenRow(rng *rand.Rand, i int) []string {
	// Engagement drives conversion probability.
	engagement := rng.Float64()
	sessions := 1 + rng.Intn(40) + int(engagement*60)
	screenViews := sessions * (2 + rng.Intn(8))
	profileViews := int(float64(screenViews) * rng.Float64() * 0.3)
	portfolioViews := int(float64(screenViews) * rng.Float64() * 0.25)
	feedViews := int(float64(screenViews) * rng.Float64() * 0.4)
	videoViews := rng.Intn(sessions + 1)

	hasLinkedBank := 0
	if engagement > 0.35 && rng.Float64() < 0.7 {
		hasLinkedBank = 1
	}

	copies := 0
	timeToFirstCopy := 0
	if hasLinkedBank == 1 && engagement > 0.45 {
		copies = 1 + rng.Intn(10)
		timeToFirstCopy = 1 + rng.Intn(14)
	}

	deposits := 0
	depositAmount := 0
	if hasLinkedBank == 1 && rng.Float64() < engagement {
		deposits = 1 + rng.Intn(5)
		depositAmount = deposits * (50 + rng.Intn(950))
	}

	subscriptions := 0
	activeSubs := 0
	if copies > 2 && rng.Float64() < 0.4 {
		subscriptions = 1 + rng.Intn(3)
		activeSubs = rng.Intn(subscriptions + 1)
	}

	return []string{
		fmt.Sprintf("user-%05d", i+1),
		strconv.Itoa(copies),
		strconv.Itoa(deposits),
		strconv.Itoa(subscriptions),
		strconv.Itoa(activeSubs),
		strconv.Itoa(hasLinkedBank),
		strconv.Itoa(sessions),
		strconv.Itoa(screenViews),
		strconv.Itoa(profileViews),
		strconv.Itoa(portfolioViews),
		strconv.Itoa(feedViews),
		strconv.Itoa(videoViews),
		strconv.Itoa(timeToFirstCopy),
		strconv.Itoa(1 + rng.Intn(365)),
		strconv.Itoa(depositAmount),
		datagenGenders[rng.Intn(len(datagenGenders))],
		datagenAges[rng.Intn(len(datagenAges))],
		datagenIncomes[rng.Intn(len(datagenIncomes))],
		datagenNetWorths[rng.Intn(len(datagenNetWorths))],
		datagenExperience[rng.Intn(len(datagenExperience))],
		datagenPlatforms[rng.Intn(len(datagenPlatforms))],
	}
}
