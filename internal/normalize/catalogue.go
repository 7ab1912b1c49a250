package normalize

import "strings"

// numericField maps one canonical counter to the column names it may arrive
// under. Aliases are checked in order; the first non-null value wins.
type numericField struct {
	name    string
	aliases []string
}

// categoricalField maps one demographic field to its known column names.
type categoricalField struct {
	name    string
	aliases []string
}

// numericFields is the fixed catalogue of behavioral counters, outcomes
// included. Legacy exports use prefixed capitalized names; database exports
// use the canonical camelCase name, so the canonical name is always the
// first alias.
var numericFields = []numericField{
	{"totalCopies", []string{"totalCopies", "Total_Copies", "copies"}},
	{"totalDeposits", []string{"totalDeposits", "Total_Deposits", "deposits"}},
	{"totalSubscriptions", []string{"totalSubscriptions", "Total_Subscriptions", "subscriptions"}},

	{"hasLinkedBank", []string{"hasLinkedBank", "Has_Linked_Bank", "linked_bank"}},
	{"timeToFirstCopy", []string{"timeToFirstCopy", "Time_To_First_Copy", "days_to_first_copy"}},
	{"timeToLinkedBank", []string{"timeToLinkedBank", "Time_To_Linked_Bank", "days_to_linked_bank"}},
	{"totalDepositAmount", []string{"totalDepositAmount", "Total_Deposit_Amount", "deposit_amount"}},
	{"firstDepositAmount", []string{"firstDepositAmount", "First_Deposit_Amount"}},
	{"totalWithdrawals", []string{"totalWithdrawals", "Total_Withdrawals", "withdrawals"}},
	{"totalCopyAmount", []string{"totalCopyAmount", "Total_Copy_Amount", "copy_amount"}},
	{"activeSubscriptions", []string{"activeSubscriptions", "Active_Subscriptions"}},
	{"totalProfileViews", []string{"totalProfileViews", "Total_Profile_Views", "profile_views"}},
	{"totalPortfolioViews", []string{"totalPortfolioViews", "Total_Portfolio_Views", "portfolio_views"}},
	{"totalCreatorFollows", []string{"totalCreatorFollows", "Total_Creator_Follows", "follows"}},
	{"totalSessions", []string{"totalSessions", "Total_Sessions", "sessions"}},
	{"avgSessionMinutes", []string{"avgSessionMinutes", "Avg_Session_Minutes", "session_minutes"}},
	{"totalAppOpens", []string{"totalAppOpens", "Total_App_Opens", "app_opens"}},
	{"totalSearches", []string{"totalSearches", "Total_Searches", "searches"}},
	{"totalWatchlistAdds", []string{"totalWatchlistAdds", "Total_Watchlist_Adds", "watchlist_adds"}},
	{"totalShares", []string{"totalShares", "Total_Shares", "shares"}},
	{"totalReferrals", []string{"totalReferrals", "Total_Referrals", "referrals"}},
	{"totalFeedViews", []string{"totalFeedViews", "Total_Feed_Views", "feed_views"}},
	{"totalVideoViews", []string{"totalVideoViews", "Total_Video_Views", "video_views"}},
	{"totalLessonsCompleted", []string{"totalLessonsCompleted", "Total_Lessons_Completed", "lessons_completed"}},
	{"totalRecurringBuys", []string{"totalRecurringBuys", "Total_Recurring_Buys", "recurring_buys"}},
	{"hasRecurringDeposit", []string{"hasRecurringDeposit", "Has_Recurring_Deposit"}},
	{"totalCancelledCopies", []string{"totalCancelledCopies", "Total_Cancelled_Copies", "cancelled_copies"}},
	{"totalPausedCopies", []string{"totalPausedCopies", "Total_Paused_Copies", "paused_copies"}},
	{"hasCompletedOnboarding", []string{"hasCompletedOnboarding", "Has_Completed_Onboarding", "onboarding_complete"}},
	{"hasVerifiedIdentity", []string{"hasVerifiedIdentity", "Has_Verified_Identity", "kyc_complete"}},
	{"hasNotificationsEnabled", []string{"hasNotificationsEnabled", "Has_Notifications_Enabled", "notifications_enabled"}},
	{"pushOptIn", []string{"pushOptIn", "Push_Opt_In", "push_opt_in"}},
	{"emailOptIn", []string{"emailOptIn", "Email_Opt_In", "email_opt_in"}},
	{"daysSinceSignup", []string{"daysSinceSignup", "Days_Since_Signup", "account_age_days"}},
	{"daysActive", []string{"daysActive", "Days_Active", "active_days"}},
	{"age", []string{"age", "Age"}},
}

// incomeEnumField and netWorthEnumField are derived ordinals, not raw
// columns: they come from the bracket vocabularies below.
const (
	incomeEnumField   = "incomeEnum"
	netWorthEnumField = "netWorthEnum"
)

// demographicFields are categorical; they coerce to string-or-empty and are
// excluded from dynamic variable discovery.
var demographicFields = []categoricalField{
	{"gender", []string{"gender", "Gender"}},
	{"ageBracket", []string{"ageBracket", "Age_Bracket", "age_range"}},
	{"incomeBracket", []string{"incomeBracket", "Income_Bracket", "income", "Income"}},
	{"netWorthBracket", []string{"netWorthBracket", "Net_Worth_Bracket", "net_worth", "Net_Worth"}},
	{"experienceLevel", []string{"experienceLevel", "Experience_Level", "investing_experience"}},
	{"platform", []string{"platform", "Platform", "device_platform"}},
}

// identifierColumns are numeric-looking columns that are never predictors.
var identifierColumns = map[string]struct{}{
	"id":      {},
	"userId":  {},
	"user_id": {},
}

// incomeBrackets maps both verbose survey labels and abbreviated export
// labels to ordinals 1-7. Unrecognized labels map to 0.
var incomeBrackets = map[string]float64{
	"less than $25,000":   1,
	"<$25k":               1,
	"$25,000 - $49,999":   2,
	"$25k-$50k":           2,
	"$50,000 - $74,999":   3,
	"$50k-$75k":           3,
	"$75,000 - $99,999":   4,
	"$75k-$100k":          4,
	"$100,000 - $149,999": 5,
	"$100k-$150k":         5,
	"$150,000 - $199,999": 6,
	"$150k-$200k":         6,
	"$200,000+":           7,
	"$200k+":              7,
}

// netWorthBrackets maps net-worth labels to ordinals 1-7.
var netWorthBrackets = map[string]float64{
	"less than $10,000":     1,
	"<$10k":                 1,
	"$10,000 - $49,999":     2,
	"$10k-$50k":             2,
	"$50,000 - $99,999":     3,
	"$50k-$100k":            3,
	"$100,000 - $249,999":   4,
	"$100k-$250k":           4,
	"$250,000 - $499,999":   5,
	"$250k-$500k":           5,
	"$500,000 - $999,999":   6,
	"$500k-$1m":             6,
	"$1,000,000+":           7,
	"$1m+":                  7,
}

// bracketOrdinal resolves a bracket label against a vocabulary,
// case-insensitively, defaulting to 0.
func bracketOrdinal(vocab map[string]float64, label string) float64 {
	if v, ok := vocab[strings.ToLower(strings.TrimSpace(label))]; ok {
		return v
	}
	return 0
}

// cataloguedColumns returns the set of every column name claimed by the
// fixed catalogue, demographics included.
func cataloguedColumns() map[string]struct{} {
	claimed := make(map[string]struct{})
	for _, f := range numericFields {
		for _, alias := range f.aliases {
			claimed[alias] = struct{}{}
		}
	}
	for _, f := range demographicFields {
		for _, alias := range f.aliases {
			claimed[alias] = struct{}{}
		}
	}
	for col := range identifierColumns {
		claimed[col] = struct{}{}
	}
	return claimed
}
