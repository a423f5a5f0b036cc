package main

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(metricsCmd)
	rootCmd.AddCommand(turnCmd)
	rootCmd.AddCommand(invitationsCmd)
	rootCmd.AddCommand(receivedCmd)
	rootCmd.AddCommand(sentCmd)
	rootCmd.AddCommand(candidatesCmd)
	rootCmd.AddCommand(cancelTurnCmd)

	cancelTurnCmd.Flags().StringVar(&organizerID, "organizer", "", "The organizer's player id")
	cancelTurnCmd.Flags().StringVar(&cancelMessage, "message", "", "Optional message for the displaced players")
	cancelTurnCmd.MarkFlagRequired("organizer")
}

var (
	organizerID   string
	cancelMessage string
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health")
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Get the durable operational counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/stats")
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics")
	},
}

var turnCmd = &cobra.Command{
	Use:   "turn [turnID]",
	Short: "Get a turn by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/turns/" + args[0])
	},
}

var invitationsCmd = &cobra.Command{
	Use:   "invitations [turnID]",
	Short: "List a turn's invitations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/turns/" + args[0] + "/invitations")
	},
}

var receivedCmd = &cobra.Command{
	Use:   "received [playerID]",
	Short: "List a player's received invitations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/" + args[0] + "/invitations/received")
	},
}

var sentCmd = &cobra.Command{
	Use:   "sent [playerID]",
	Short: "List a player's sent invitations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/players/" + args[0] + "/invitations/sent")
	},
}

var candidatesCmd = &cobra.Command{
	Use:   "candidates [turnID]",
	Short: "List invitable players for a turn",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/turns/" + args[0] + "/candidates")
	},
}

var cancelTurnCmd = &cobra.Command{
	Use:   "cancel-turn [turnID]",
	Short: "Cancel a complete turn as the organizer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := fmt.Sprintf(`{"organizer_id":%q,"message":%q}`, organizerID, cancelMessage)
		return performPostRequest("/turns/"+args[0]+"/cancel", body)
	},
}

func performGetRequest(endpoint string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func performPostRequest(endpoint, body string) error {
	url := host + endpoint
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	return printResponse(resp)
}

func printResponse(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
