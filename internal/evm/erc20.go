package evm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// erc20ABIJSON covers the three read-only metadata methods the catalog
// verifies.
const erc20ABIJSON = `[
	{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"payable":false,"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"payable":false,"stateMutability":"view","type":"function"}
]`

var erc20ABI = mustERC20ABI()

func mustERC20ABI() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic(fmt.Sprintf("parse ERC-20 ABI: %v", err))
	}
	return parsed
}

// readContract packs a zero-argument call, executes it, and unpacks
// the single return value into result.
func (c *Client) readContract(ctx context.Context, result interface{}, contract, method string) error {
	data, err := erc20ABI.Pack(method)
	if err != nil {
		return fmt.Errorf("pack %s: %w", method, err)
	}

	out, err := c.EthCall(ctx, contract, data)
	if err != nil {
		return fmt.Errorf("call %s: %w", method, err)
	}

	if err := erc20ABI.UnpackIntoInterface(result, method, out); err != nil {
		return fmt.Errorf("unpack %s: %w", method, err)
	}
	return nil
}

// ERC20Decimals reads decimals() of the contract at addr.
func (c *Client) ERC20Decimals(ctx context.Context, addr string) (uint8, error) {
	var result uint8
	err := c.readContract(ctx, &result, addr, "decimals")
	return result, err
}

// ERC20Symbol reads symbol() of the contract at addr.
func (c *Client) ERC20Symbol(ctx context.Context, addr string) (string, error) {
	var result string
	err := c.readContract(ctx, &result, addr, "symbol")
	return result, err
}

// ERC20Name reads name() of the contract at addr.
func (c *Client) ERC20Name(ctx context.Context, addr string) (string, error) {
	var result string
	err := c.readContract(ctx, &result, addr, "name")
	return result, err
}
