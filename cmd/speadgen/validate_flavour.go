package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scigolib/spead"
	"github.com/scigolib/spead/flavour"
)

type validateFlavourFlags struct {
	version         uint8
	itemPointerBits uint8
	heapAddressBits uint8
	bugCompat       uint32
}

func newValidateFlavourCmd() *cobra.Command {
	flags := &validateFlavourFlags{}

	cmd := &cobra.Command{
		Use:   "validate-flavour",
		Short: "Check that a version/item-pointer-bits/heap-address-bits/bug-compat combination is valid",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidateFlavour(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.Uint8Var(&flags.version, "version", 4, "SPEAD version")
	f.Uint8Var(&flags.itemPointerBits, "item-pointer-bits", 64, "item pointer width in bits")
	f.Uint8Var(&flags.heapAddressBits, "heap-address-bits", 48, "heap address field width in bits")
	f.Uint32Var(&flags.bugCompat, "bug-compat", 0, "bug_compat bitmask")

	return cmd
}

func runValidateFlavour(cmd *cobra.Command, flags *validateFlavourFlags) error {
	built, err := spead.NewFlavour(flags.version, flags.itemPointerBits, flags.heapAddressBits, flavour.BugCompat(flags.bugCompat))
	if err != nil {
		return fmt.Errorf("invalid flavour: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ok: version=%d item_pointer_bits=%d heap_address_bits=%d bug_compat=%#x\n",
		built.Version(), built.ItemPointerBits(), built.HeapAddressBits(), uint32(built.BugCompat()))

	return nil
}
