package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Loan69/ai-agent-prospection/internal/config"
	"github.com/Loan69/ai-agent-prospection/internal/model"
)

var (
	messageInput   model.MessageInput
	messageSegment string
)

var messageCmd = &cobra.Command{
	Use:   "message",
	Short: "Write a prospecting message for a company",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if messageInput.CompanyName == "" {
			return eris.New("--company is required")
		}
		seg, ok := model.ParseSegment(messageSegment)
		if !ok {
			return eris.Errorf("unknown segment %q (Artisan, B2B or Freelance/SME)", messageSegment)
		}
		in := messageInput
		in.Segment = seg

		env, err := initAgent(ctx, config.ModeLLM, false)
		if err != nil {
			return err
		}
		defer env.Close()

		msg, err := env.Agent.GenerateMessage(ctx, in)
		if err != nil {
			return err
		}
		return writeOutput(cmd.OutOrStdout(), msg, "json")
	},
}

func init() {
	f := messageCmd.Flags()
	f.StringVar(&messageInput.CompanyName, "company", "", "company name (required)")
	f.StringVar(&messageSegment, "segment", string(model.SegmentArtisan), "audience segment: Artisan, B2B or Freelance/SME")
	f.StringVar(&messageInput.City, "city", "", "company city")
	f.StringVar(&messageInput.ProblemDetected, "problem", "", "problem detected on the company's web presence")
	f.StringVar(&messageInput.BusinessAngle, "angle", "", "business angle of the offer")
	f.StringVar(&messageInput.LeadID, "lead-id", "", "qualified lead id to attach the message to")
	rootCmd.AddCommand(messageCmd)
}
