// Package ethconnector implements parent.Connector against an Ethereum
// JSON-RPC endpoint, using ethclient.Dial and header/block-by-hash lookups
// the way go-ethereum client code conventionally does.
package ethconnector

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/log"

	"github.com/aeternity/hctracker/parent"
)

// Connector dials a single Ethereum-compatible JSON-RPC endpoint and
// translates its blocks into parent.Block values. One Connector serves
// exactly one parent.Tracker, matching the one-ethClient-per-backend shape
// of mive.Mive.
type Connector struct {
	mu      sync.Mutex
	client  *ethclient.Client
	chainID *big.Int
	signer  types.Signer

	cancel context.CancelFunc
}

// handle is returned from Connect and accepted by Disconnect; it carries no
// state beyond identifying that a subscription is live, since Connector
// itself holds the client.
type handle struct{}

// New returns an unconnected Connector. Connect dials the endpoint named by
// args["rpcUrl"].
func New() *Connector {
	return &Connector{}
}

// Connect dials args["rpcUrl"] and subscribes to new heads, invoking onBlock
// for each one translated to a parent.Block (spec §3 "Connector", §6
// "on_block"). id is accepted for symmetry with other Connector
// implementations but unused here: one ethconnector.Connector always talks
// to the endpoint given in args.
func (c *Connector) Connect(id string, args map[string]string, onBlock parent.OnBlock) (parent.Handle, error) {
	rpcURL, ok := args["rpcUrl"]
	if !ok || rpcURL == "" {
		return nil, fmt.Errorf("ethconnector: missing rpcUrl arg")
	}

	ctx, cancel := context.WithCancel(context.Background())
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("ethconnector: dial %s: %w", rpcURL, err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		cancel()
		client.Close()
		return nil, fmt.Errorf("ethconnector: chain id: %w", err)
	}

	c.mu.Lock()
	c.client = client
	c.chainID = chainID
	c.signer = types.LatestSignerForChainID(chainID)
	c.cancel = cancel
	c.mu.Unlock()

	heads := make(chan *types.Header, 16)
	sub, err := client.SubscribeNewHead(ctx, heads)
	if err != nil {
		cancel()
		client.Close()
		return nil, fmt.Errorf("ethconnector: subscribe new head: %w", err)
	}

	go c.pump(ctx, sub, heads, onBlock)

	return handle{}, nil
}

func (c *Connector) pump(ctx context.Context, sub ethereum.Subscription, heads <-chan *types.Header, onBlock parent.OnBlock) {
	defer sub.Unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-sub.Err():
			if err != nil {
				log.Error("ethconnector: head subscription error", "err", err)
			}
			return
		case header := <-heads:
			block, err := c.blockByHash(ctx, header.Hash())
			if err != nil {
				log.Error("ethconnector: fetch new head block", "hash", header.Hash(), "err", err)
				continue
			}
			onBlock(block)
		}
	}
}

// Disconnect tears down the subscription and closes the underlying client.
func (c *Connector) Disconnect(_ parent.Handle) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	if c.client != nil {
		c.client.Close()
	}
	return nil
}

// GetTopBlock returns the hash of the endpoint's current head (spec §3
// "connector current state ... top block").
func (c *Connector) GetTopBlock() (common.Hash, error) {
	client, ctx := c.clientAndCtx()
	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return common.Hash{}, fmt.Errorf("ethconnector: header by number: %w", err)
	}
	return header.Hash(), nil
}

// GetBlockByHash returns the parent.Block for hash (spec §3
// "get_block_by_hash").
func (c *Connector) GetBlockByHash(hash common.Hash) (*parent.Block, error) {
	client, ctx := c.clientAndCtx()
	return c.translateBlock(ctx, client, hash)
}

func (c *Connector) blockByHash(ctx context.Context, hash common.Hash) (*parent.Block, error) {
	client, _ := c.clientAndCtx()
	return c.translateBlock(ctx, client, hash)
}

func (c *Connector) translateBlock(ctx context.Context, client *ethclient.Client, hash common.Hash) (*parent.Block, error) {
	b, err := client.BlockByHash(ctx, hash)
	if err != nil {
		return nil, err
	}

	txs := make([]parent.RawTx, 0, len(b.Transactions()))
	for _, tx := range b.Transactions() {
		from, err := types.Sender(c.signer, tx)
		if err != nil {
			log.Warn("ethconnector: recover sender, skipping tx", "hash", tx.Hash(), "err", err)
			continue
		}
		txs = append(txs, parent.RawTx{Account: from, Payload: tx.Data()})
	}

	return &parent.Block{
		Hash:     b.Hash(),
		PrevHash: b.ParentHash(),
		Height:   b.NumberU64(),
		Txs:      txs,
	}, nil
}

// SendTx broadcasts a pre-signed raw transaction payload (spec §6
// "send_tx"). The connector does not construct or sign transactions itself:
// payload is already RLP-encoded as produced by txdecode.EncodeCommitment /
// EncodeDelegate wrapped in a signed types.Transaction upstream.
func (c *Connector) SendTx(payload []byte) error {
	var tx types.Transaction
	if err := tx.UnmarshalBinary(payload); err != nil {
		return fmt.Errorf("ethconnector: decode tx: %w", err)
	}
	client, ctx := c.clientAndCtx()
	return client.SendTransaction(ctx, &tx)
}

func (c *Connector) clientAndCtx() (*ethclient.Client, context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.client, context.Background()
}
