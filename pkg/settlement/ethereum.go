package settlement

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Error is a settlement submission failure. The reason distinguishes which
// stage failed; the milestone stays retryable either way.
type Error struct {
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("settlement failed (%s): %v", e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Minimal ABI for the escrow contract's release function.
const releaseABI = `[{"inputs":[{"name":"_projectId","type":"uint256"},{"name":"_verdict","type":"bool"}],"name":"releaseMilestone","outputs":[],"stateMutability":"nonpayable","type":"function"}]`

const (
	releaseGasLimit = 100000
	// 20 gwei
	releaseGasPrice = 20_000_000_000
)

// Client submits fund-release transactions to the escrow contract.
//
// The account nonce is a strictly increasing shared resource, so nonce
// acquisition and transaction submission are serialized process-wide behind
// a single mutex. Callers for different milestones still verify in parallel;
// only the submission step queues.
type Client struct {
	eth         *ethclient.Client
	contractABI abi.ABI
	key         *ecdsa.PrivateKey
	from        common.Address
	contract    common.Address
	chainID     *big.Int

	mu sync.Mutex
}

// NewClient creates a settlement client for the given network and contract
func NewClient(ctx context.Context, rpcURL, privateKeyHex, contractAddress string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial rpc: %w", err)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	chainID, err := eth.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chain id: %w", err)
	}

	contractABI, err := abi.JSON(strings.NewReader(releaseABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract abi: %w", err)
	}

	return &Client{
		eth:         eth,
		contractABI: contractABI,
		key:         key,
		from:        crypto.PubkeyToAddress(key.PublicKey),
		contract:    common.HexToAddress(contractAddress),
		chainID:     chainID,
	}, nil
}

// Release submits releaseMilestone(projectID, true) and returns the
// transaction hash. Submission for the whole process is serialized so two
// concurrent settlements cannot race on the account nonce.
func (c *Client) Release(ctx context.Context, projectID uint) (string, error) {
	data, err := c.contractABI.Pack("releaseMilestone", new(big.Int).SetUint64(uint64(projectID)), true)
	if err != nil {
		return "", &Error{Reason: "pack arguments", Err: err}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	nonce, err := c.eth.PendingNonceAt(ctx, c.from)
	if err != nil {
		return "", &Error{Reason: "fetch nonce", Err: err}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &c.contract,
		Gas:      releaseGasLimit,
		GasPrice: big.NewInt(releaseGasPrice),
		Data:     data,
	})

	signed, err := types.SignTx(tx, types.LatestSignerForChainID(c.chainID), c.key)
	if err != nil {
		return "", &Error{Reason: "sign transaction", Err: err}
	}

	if err := c.eth.SendTransaction(ctx, signed); err != nil {
		return "", &Error{Reason: "submit transaction", Err: err}
	}

	return signed.Hash().Hex(), nil
}

// Close releases the underlying connection
func (c *Client) Close() {
	c.eth.Close()
}
