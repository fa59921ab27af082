package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"shielded-nft/internal/app"
	"shielded-nft/internal/core/domain"
	"shielded-nft/internal/core/ports"
	"shielded-nft/pkg/apperror"

	"github.com/urfave/cli/v2"
)

const defaultRoyaltyRate = 5

var (
	royaltyFlag = &cli.IntFlag{
		Name:  "royalty",
		Usage: "royalty percentage in [0, 100], negative for none",
		Value: defaultRoyaltyRate,
	}
	shieldedFlag = &cli.BoolFlag{
		Name:        "shielded",
		Usage:       "hide metadata behind viewing keys",
		Value:       true,
		DefaultText: "true",
	}
	nonceFlag = &cli.StringFlag{
		Name:  "nonce",
		Usage: "mint nonce; the same metadata and nonce always derive the same id",
	}
	attrFlag = &cli.StringSliceFlag{
		Name:    "attr",
		Aliases: []string{"a"},
		Usage:   "metadata attribute as key=value, repeatable",
	}
	keyFlag = &cli.StringFlag{
		Name:    "key",
		Aliases: []string{"k"},
		Usage:   "viewing key for shielded metadata",
	}
	outFlag = &cli.StringFlag{
		Name:  "out",
		Usage: "write the packet to a file instead of stdout",
	}
	asFlag = &cli.StringFlag{
		Name:     "as",
		Usage:    "account performing the export; must own the NFT",
		Required: true,
	}
)

type commands struct {
	out    io.Writer
	ledger *app.App
}

func (c *commands) all() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "mint",
			Usage:     "Mint a new NFT",
			ArgsUsage: "<owner> <name> <description> <image_cid> [attributes]",
			Flags:     []cli.Flag{royaltyFlag, shieldedFlag, nonceFlag, attrFlag},
			Action:    c.mint,
		},
		{
			Name:      "transfer",
			Usage:     "Transfer an NFT to a new owner",
			ArgsUsage: "<nft_id> <new_owner>",
			Action:    c.transfer,
		},
		{
			Name:      "stake",
			Usage:     "Stake an NFT, locking transfers",
			ArgsUsage: "<nft_id>",
			Action:    c.stake,
		},
		{
			Name:      "unstake",
			Usage:     "Release the staking lock",
			ArgsUsage: "<nft_id>",
			Action:    c.unstake,
		},
		{
			Name:      "airdrop",
			Usage:     "Mint a copy of an NFT for each recipient",
			ArgsUsage: "<nft_id> <recipient>...",
			Action:    c.airdrop,
		},
		{
			Name:      "view",
			Usage:     "Show NFT metadata",
			ArgsUsage: "<nft_id>",
			Flags:     []cli.Flag{keyFlag},
			Action:    c.view,
		},
		{
			Name:      "viewing-key",
			Usage:     "Issue a viewing key to the current owner",
			ArgsUsage: "<nft_id> <owner>",
			Action:    c.viewingKey,
		},
		{
			Name:      "ibc-export",
			Usage:     "Export an NFT as an IBC packet",
			ArgsUsage: "<nft_id>",
			Flags:     []cli.Flag{asFlag, outFlag},
			Action:    c.ibcExport,
		},
		{
			Name:      "ibc-import",
			Usage:     "Import an IBC packet from a file, or stdin with -",
			ArgsUsage: "<packet_file|->",
			Action:    c.ibcImport,
		},
		{
			Name:      "account-token",
			Usage:     "Issue a bearer token proving control of an account",
			ArgsUsage: "<account>",
			Action:    c.accountToken,
		},
		{
			Name:      "list",
			Usage:     "List the NFTs held by an owner",
			ArgsUsage: "<owner>",
			Action:    c.list,
		},
	}
}

func requireArgs(ctx *cli.Context, n int) error {
	if ctx.Args().Len() < n {
		return fmt.Errorf("usage: %s %s", ctx.Command.Name, ctx.Command.ArgsUsage)
	}
	return nil
}

func (c *commands) mint(ctx *cli.Context) error {
	if err := requireArgs(ctx, 4); err != nil {
		return err
	}
	args := ctx.Args()

	// The optional fifth argument holds comma-separated key=value pairs;
	// --attr values are appended after it.
	raw := ctx.StringSlice(attrFlag.Name)
	if positional := args.Get(4); positional != "" {
		raw = append(splitAttributes(positional), raw...)
	}
	attrs, err := parseAttributes(raw)
	if err != nil {
		return err
	}

	var royalty *int
	if r := ctx.Int(royaltyFlag.Name); r >= 0 {
		royalty = &r
	}

	id, err := c.ledger.Mint.Mint(ctx.Context, ports.MintRequest{
		Owner: args.Get(0),
		Metadata: domain.Metadata{
			Name:           args.Get(1),
			Description:    args.Get(2),
			ContentAddress: args.Get(3),
			Attributes:     attrs,
			Shielded:       ctx.Bool(shieldedFlag.Name),
		},
		RoyaltyRate: royalty,
		Nonce:       ctx.String(nonceFlag.Name),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Minted NFT ID: %s\n", id)
	return nil
}

func splitAttributes(list string) []string {
	var out []string
	for _, kv := range strings.Split(list, ",") {
		if kv = strings.TrimSpace(kv); kv != "" {
			out = append(out, kv)
		}
	}
	return out
}

func parseAttributes(raw []string) ([]domain.Attribute, error) {
	attrs := make([]domain.Attribute, 0, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid attribute %q, want key=value", kv)
		}
		attrs = append(attrs, domain.Attribute{Key: key, Value: value})
	}
	return attrs, nil
}

func (c *commands) transfer(ctx *cli.Context) error {
	if err := requireArgs(ctx, 2); err != nil {
		return err
	}
	id, newOwner := ctx.Args().Get(0), ctx.Args().Get(1)
	if err := c.ledger.Transfer.Transfer(ctx.Context, id, newOwner); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Transferred NFT %s to %s\n", id, newOwner)
	return nil
}

func (c *commands) stake(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	id := ctx.Args().First()
	if err := c.ledger.Staking.Stake(ctx.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Staked NFT %s\n", id)
	return nil
}

func (c *commands) unstake(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	id := ctx.Args().First()
	if err := c.ledger.Staking.Unstake(ctx.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Unstaked NFT %s\n", id)
	return nil
}

func (c *commands) airdrop(ctx *cli.Context) error {
	if err := requireArgs(ctx, 2); err != nil {
		return err
	}
	args := ctx.Args().Slice()
	outcomes, err := c.ledger.Airdrop.Airdrop(ctx.Context, args[0], args[1:])
	if err != nil {
		return err
	}

	failed := 0
	for _, o := range outcomes {
		if o.Succeeded() {
			fmt.Fprintf(c.out, "%s: %s\n", o.Recipient, o.ID)
			continue
		}
		failed++
		fmt.Fprintf(c.out, "%s: failed: %s\n", o.Recipient, describe(o.Err))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d recipients failed", failed, len(outcomes))
	}
	return nil
}

func (c *commands) view(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	meta, err := c.ledger.View.Reveal(ctx.Context, ctx.Args().First(), ctx.String(keyFlag.Name))
	if err != nil {
		return err
	}
	if meta == nil {
		fmt.Fprintln(c.out, "NFT not found")
		return nil
	}
	return c.printJSON(meta)
}

func (c *commands) viewingKey(ctx *cli.Context) error {
	if err := requireArgs(ctx, 2); err != nil {
		return err
	}
	key, expiresAt, err := c.ledger.View.IssueViewingKey(ctx.Context, ctx.Args().Get(0), ctx.Args().Get(1))
	if err != nil {
		return err
	}
	return c.printJSON(map[string]interface{}{
		"viewing_key": key,
		"expires_at":  expiresAt.Unix(),
	})
}

func (c *commands) ibcExport(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	packet, err := c.ledger.Portability.Export(ctx.Context, ctx.Args().First(), ctx.String(asFlag.Name))
	if err != nil {
		return err
	}

	if path := ctx.String(outFlag.Name); path != "" {
		if err := os.WriteFile(path, packet, 0o600); err != nil {
			return fmt.Errorf("writing packet: %w", err)
		}
		fmt.Fprintf(c.out, "Exported packet to %s\n", path)
		return nil
	}
	fmt.Fprintln(c.out, string(packet))
	return nil
}

func (c *commands) accountToken(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	token, expiresAt, err := c.ledger.Accounts.Issue(ctx.Args().First())
	if err != nil {
		return err
	}
	return c.printJSON(map[string]interface{}{
		"account_token": token,
		"expires_at":    expiresAt.Unix(),
	})
}

func (c *commands) ibcImport(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}

	var (
		packet []byte
		err    error
	)
	if src := ctx.Args().First(); src == "-" {
		packet, err = io.ReadAll(ctx.App.Reader)
	} else {
		packet, err = os.ReadFile(src)
	}
	if err != nil {
		return fmt.Errorf("reading packet: %w", err)
	}

	id, err := c.ledger.Portability.Import(ctx.Context, packet)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Imported NFT ID: %s\n", id)
	return nil
}

func (c *commands) list(ctx *cli.Context) error {
	if err := requireArgs(ctx, 1); err != nil {
		return err
	}
	ids, err := c.ledger.View.ListOwned(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}
	return c.printJSON(ids)
}

func (c *commands) printJSON(v interface{}) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(c.out, string(jsonBytes))
	return nil
}

// describe renders an error the way API clients see it.
func describe(err error) string {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return fmt.Sprintf("%s %s", appErr.Code, appErr.Message)
	}
	return err.Error()
}
