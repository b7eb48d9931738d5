package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"MultilinearPCS/modules/fields"
	"MultilinearPCS/modules/fri"
	"MultilinearPCS/modules/hasher"
	"MultilinearPCS/modules/logger"
	"MultilinearPCS/modules/polycommit"
	"MultilinearPCS/modules/polynomial"
)

var (
	numVars      int
	logBlowUp    int
	securityBits int
	logFinalPoly int
	batchSize    int
)

func init() {
	pcsCmd.AddCommand(selfCheckCmd)
	selfCheckCmd.PersistentFlags().IntVar(&numVars, "num-vars", 14, "The number of variables of the random polynomial.")
	selfCheckCmd.PersistentFlags().IntVar(&logBlowUp, "log-blowup", 2, "Log2 of the Reed-Solomon inverse rate.")
	selfCheckCmd.PersistentFlags().IntVar(&securityBits, "security-bits", 100, "The target soundness level driving the query count.")
	selfCheckCmd.PersistentFlags().IntVar(&logFinalPoly, "log-final-poly", 4, "Log2 of the explicit final polynomial length.")
	selfCheckCmd.PersistentFlags().IntVar(&batchSize, "batch", 1, "The number of polynomials to commit and open together.")
}

var selfCheckCmd = &cobra.Command{
	Use:   "selfcheck",
	Short: "Commit, open and verify random polynomials end to end",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := fri.NewParams(logBlowUp, securityBits, logFinalPoly, nil)
		if err != nil {
			return err
		}
		scheme := polycommit.NewScheme(params, hasher.NewMiMC())
		log := logger.Logger()
		log.Info().
			Int("numVars", numVars).
			Int("queries", params.NumQueries).
			Int("batch", batchSize).
			Msg("self check starting")

		if batchSize <= 1 {
			return singleCheck(scheme)
		}
		return batchCheck(scheme)
	},
}

func singleCheck(scheme polycommit.Scheme) error {
	p := polynomial.Random(numVars)
	point := fields.RandomVector(numVars)

	start := time.Now()
	cm, ct, err := scheme.Commit(p)
	if err != nil {
		return err
	}
	commitTime := time.Since(start)

	start = time.Now()
	value, proof, err := scheme.Open(ct, point)
	if err != nil {
		return err
	}
	openTime := time.Since(start)

	start = time.Now()
	if err := scheme.Verify(cm, point, value, proof); err != nil {
		return err
	}
	fmt.Printf("commit %v, open %v, verify %v, stream %d elements, %d queries\n",
		commitTime, openTime, time.Since(start), len(proof.Stream), len(proof.Queries))
	return nil
}

func batchCheck(scheme polycommit.Scheme) error {
	cts := make([]*polycommit.Committed, batchSize)
	claims := make([]polycommit.Claim, batchSize)
	points := make([][]fields.Element, batchSize)
	for j := 0; j < batchSize; j++ {
		p := polynomial.Random(numVars)
		cm, ct, err := scheme.Commit(p)
		if err != nil {
			return err
		}
		cts[j] = ct
		points[j] = fields.RandomVector(numVars)
		claims[j] = polycommit.Claim{Commitment: cm, Point: points[j]}
	}

	start := time.Now()
	values, proof, err := scheme.BatchOpen(cts, points)
	if err != nil {
		return err
	}
	openTime := time.Since(start)
	for j := range claims {
		claims[j].Value = values[j]
	}

	start = time.Now()
	if err := scheme.BatchVerify(claims, proof); err != nil {
		return err
	}
	fmt.Printf("batch of %d: open %v, verify %v, stream %d elements, %d queries\n",
		batchSize, openTime, time.Since(start), len(proof.Stream), len(proof.Queries))
	return nil
}
