package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

func newCompanyDataCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "company-data",
		Short: "Fetch company details, to check the authentication",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := a.svc.CompanyData(cmd.Context())
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.field("Company", data.CompanyName)
			p.field("Number", data.CompanyNumber)
			p.field("Category", data.CompanyCategory)
			p.field("Jurisdiction", data.Jurisdiction)
			p.field("Trading on market", yesNo(data.Trading()))
			p.field("Made up date", data.MadeUpDate)
			p.field("Next due date", data.NextDueDate)

			addr := data.RegisteredOfficeAddress
			p.heading("Registered Office")
			p.subfield("Premise", addr.Premise)
			p.subfield("Street", addr.Street)
			if addr.Thoroughfare != "" {
				p.subfield("Thoroughfare", addr.Thoroughfare)
			}
			p.subfield("Post town", addr.PostTown)
			p.subfield("Postcode", addr.Postcode)
			p.subfield("Country", addr.Country)

			p.field("SIC codes", strings.Join(data.SICCodes, ", "))
			return nil
		},
	}
}

func newSubmitAccountsCmd(a *app) *cobra.Command {
	var accounts string

	cmd := &cobra.Command{
		Use:   "submit-accounts",
		Short: "Submit company accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readAccounts(accounts)
			if err != nil {
				return err
			}

			subID, err := a.svc.SubmitAccounts(cmd.Context(), filepath.Base(accounts), data)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.success("Submission completed.")
			p.field("Submission ID is", subID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&accounts, "accounts", "a", "", "company accounts iXBRL file")
	return cmd
}

func newSubmissionStatusCmd(a *app) *cobra.Command {
	var submissionID string

	cmd := &cobra.Command{
		Use:   "submission-status",
		Short: "Get the status of previous filings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := a.svc.SubmissionStatus(cmd.Context(), submissionID)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			if len(statuses) == 0 {
				p.dim("No submissions found.")
				return nil
			}
			for _, s := range statuses {
				p.field(s.SubmissionNumber, s.StatusCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&submissionID, "submission-id", "i", "", "submission id of a previous filing (default all)")
	return cmd
}

func newAccountsImageCmd(a *app) *cobra.Command {
	var accounts string

	cmd := &cobra.Command{
		Use:   "accounts-image",
		Short: "Request an image of company accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readAccounts(accounts)
			if err != nil {
				return err
			}

			image, err := a.svc.AccountsImage(cmd.Context(), filepath.Base(accounts), data)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.field("Status", image.Status)
			p.field("Message", image.Message)
			return nil
		},
	}

	cmd.Flags().StringVarP(&accounts, "accounts", "a", "", "company accounts iXBRL file")
	return cmd
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
