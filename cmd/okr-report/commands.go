package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/okrscore/internal/domain/types"
)

func newDepartmentsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "departments [id...]",
		Short: "Show department scores",
		Long:  "Shows every department, or only the listed ones, with automatic and blended scores.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			ctx := contextOf(cmd)
			if len(args) == 0 {
				rows, err := s.svc.AllDepartmentScores(ctx)
				if err != nil {
					return err
				}
				return s.out.Departments(rows)
			}
			rows := make([]types.DepartmentScore, 0, len(args))
			for _, id := range args {
				d, err := s.svc.DepartmentScore(ctx, id)
				if err != nil {
					return err
				}
				rows = append(rows, d)
			}
			return s.out.Departments(rows)
		},
	}
}

func newDivisionsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "divisions [id...]",
		Short: "Show division scores with their departments",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			ctx := contextOf(cmd)
			if len(args) == 0 {
				rows, err := s.svc.AllDivisionScores(ctx)
				if err != nil {
					return err
				}
				return s.out.Divisions(rows)
			}
			rows := make([]types.DivisionScore, 0, len(args))
			for _, id := range args {
				d, err := s.svc.DivisionScore(ctx, id)
				if err != nil {
					return err
				}
				rows = append(rows, d)
			}
			return s.out.Divisions(rows)
		},
	}
}

func newLevelsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "levels",
		Short: "Show the level configuration in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			rows, defaults, err := s.svc.Levels(contextOf(cmd))
			if err != nil {
				return err
			}
			return s.out.Levels(rows, defaults)
		},
	}
}
