// Command portal is a terminal client for the stamply API, mirroring what
// the customer-facing frontend does: log in, browse rewards with live
// eligibility, redeem stamp codes and rewards, and show tickets.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stamply/stamply-core/pkg/portal"
	"github.com/stamply/stamply-core/pkg/rewardstate"
)

func main() {
	apiURL := flag.String("api", "http://localhost:3000", "base URL of the stamply API")
	sessionFile := flag.String("session", defaultSessionPath(), "path to the session file")
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	store := portal.NewSessionStore(*sessionFile)
	store.Hydrate()
	client := portal.NewClient(*apiURL, store)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var err error
	switch flag.Arg(0) {
	case "login":
		err = runLogin(ctx, client, flag.Args()[1:])
	case "logout":
		fmt.Printf("Signed out. Log back in at %s\n", client.Logout(ctx))
	case "rewards":
		err = runRewards(ctx, client, store, flag.Args()[1:])
	case "cards":
		err = runCards(ctx, client)
	case "stamp":
		err = runStamp(ctx, client, flag.Args()[1:])
	case "redeem":
		err = runRedeem(ctx, client, flag.Args()[1:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		if redirect, ok := err.(*portal.AuthRedirectError); ok {
			logrus.Fatalf("Session expired, please log in again at %s", redirect.LoginRoute)
		}
		logrus.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: portal [-api URL] [-session FILE] COMMAND

commands:
  login EMAIL PASSWORD [-business]   sign in as a client (or business)
  logout                             sign out and clear the session
  rewards BUSINESS_ID                list rewards with eligibility
  cards                              list stamp cards
  stamp CODE                         redeem a stamp code
  redeem BUSINESS_ID REWARD_ID       redeem a reward and print the ticket`)
}

func defaultSessionPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stamply-session.json"
	}
	return filepath.Join(home, ".stamply", "session.json")
}

func runLogin(ctx context.Context, client *portal.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	business := fs.Bool("business", false, "log in to the business portal")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: login EMAIL PASSWORD [-business]")
	}

	login := client.LoginClient
	if *business {
		login = client.LoginBusiness
	}

	auth, err := login(ctx, fs.Arg(0), fs.Arg(1))
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s (%s)\n", auth.User.Name, auth.UserType)
	return nil
}

func runRewards(ctx context.Context, client *portal.Client, store *portal.SessionStore, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: rewards BUSINESS_ID")
	}
	businessID := args[0]

	rewards, err := client.ListBusinessRewards(ctx, businessID, false)
	if err != nil {
		return err
	}

	// Eligibility needs the card balance, which only a logged-in client has.
	var card *portal.ClientCard
	if sess := store.Current(); sess != nil && sess.UserType == portal.UserTypeClient {
		cards, err := client.ListClientCards(ctx)
		if err != nil {
			return err
		}
		card = portal.CardFor(cards, businessID)
	}

	now := time.Now()
	for _, reward := range rewards {
		fmt.Printf("%-30s %3d stamps  %s\n", reward.Name, reward.StampsCost, eligibilityLabel(reward, card, now))
	}
	return nil
}

func eligibilityLabel(reward portal.Reward, card *portal.ClientCard, now time.Time) string {
	eligibility := reward.EligibilityFor(card, now)
	if eligibility.CanRedeem {
		return "redeemable"
	}

	switch eligibility.Reason {
	case rewardstate.ReasonExpired:
		return "expired"
	case rewardstate.ReasonOutOfStock:
		return "out of stock"
	case rewardstate.ReasonInsufficientStamps:
		return fmt.Sprintf("%d more stamps needed", eligibility.Deficit)
	case rewardstate.ReasonNoCard:
		return "no stamp card yet"
	default:
		return "not available"
	}
}

func runCards(ctx context.Context, client *portal.Client) error {
	cards, err := client.ListClientCards(ctx)
	if err != nil {
		return err
	}

	if len(cards) == 0 {
		fmt.Println("No stamp cards yet. Redeem a stamp code to start one.")
		return nil
	}
	for _, card := range cards {
		fmt.Printf("business %s  level %d  %d stamps available (%d earned, %d spent)\n",
			card.BusinessID, card.Level, card.AvailableStamps, card.TotalStamps, card.UsedStamps)
	}
	return nil
}

func runStamp(ctx context.Context, client *portal.Client, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: stamp CODE")
	}

	result, err := client.RedeemStampCode(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Earned %d stamps. You now have %d available.\n", result.StampsEarned, result.Card.AvailableStamps)
	return nil
}

func runRedeem(ctx context.Context, client *portal.Client, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: redeem BUSINESS_ID REWARD_ID")
	}

	coordinator := portal.NewRedemptionCoordinator(client)
	result, err := coordinator.Redeem(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	ticket := result.Ticket
	fmt.Println("Redemption successful! Show this ticket at the counter:")
	fmt.Printf("  code:    %s\n", ticket.RedemptionCode)
	fmt.Printf("  reward:  %s\n", ticket.RewardName)
	fmt.Printf("  client:  %s\n", ticket.ClientName)
	fmt.Printf("  spent:   %d stamps\n", ticket.StampsSpent)
	if ticket.ExpiresAt != nil {
		fmt.Printf("  expires: %s\n", ticket.ExpiresAt.Format(time.Kitchen))
	}

	if result.Stale {
		fmt.Println("Could not refresh balances; shown stamp counts may be outdated.")
		return nil
	}
	if card := portal.CardFor(result.Cards, args[0]); card != nil {
		fmt.Printf("Remaining stamps at this business: %d\n", card.AvailableStamps)
	}
	return nil
}
