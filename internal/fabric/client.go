package fabric

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-resty/resty/v2"

	"medcollab/internal/config"
	"medcollab/internal/domain"
)

// Client talks to the Hyperledger Fabric REST proxy. Records and their access
// lists live on the ledger; this service only ever invokes or queries the
// record-management chaincode through the proxy.
type Client interface {
	GetRecord(ctx context.Context, recordID string) (*domain.Record, error)
	ListByPatient(ctx context.Context, patientID string) ([]domain.Record, error)
	ListByDoctor(ctx context.Context, doctorID string) ([]domain.Record, error)
	GrantAccess(ctx context.Context, recordID, doctorID string) error
	RevokeAccess(ctx context.Context, recordID, doctorID string) error
}

type invokeRequest struct {
	Method string   `json:"method"`
	Args   []string `json:"args"`
}

type proxyResponse struct {
	Response json.RawMessage `json:"response"`
	Message  string          `json:"message,omitempty"`
}

type client struct {
	http      *resty.Client
	channel   string
	chaincode string
}

func NewClient(cfg *config.Config) Client {
	http := resty.New().
		SetBaseURL(cfg.FabricProxyURL).
		SetTimeout(cfg.FabricRequestTimeout).
		SetHeader("Content-Type", "application/json")

	return &client{
		http:      http,
		channel:   cfg.FabricChannelName,
		chaincode: cfg.FabricChaincodeName,
	}
}

func (c *client) invoke(ctx context.Context, role, method string, args ...string) (json.RawMessage, error) {
	var result proxyResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"channelName":   c.channel,
			"chaincodeName": c.chaincode,
		}).
		SetBody(invokeRequest{Method: method, Args: args}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/%s/invoke/chaincode", role))
	if err != nil {
		return nil, fmt.Errorf("fabric proxy unreachable: %w", err)
	}
	if resp.IsError() {
		if result.Message != "" {
			return nil, fmt.Errorf("chaincode %s failed: %s", method, result.Message)
		}
		return nil, fmt.Errorf("chaincode %s failed: %s", method, resp.Status())
	}

	return result.Response, nil
}

func (c *client) query(ctx context.Context, role, method string, args ...string) (json.RawMessage, error) {
	var result proxyResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"channelName":   c.channel,
			"chaincodeName": c.chaincode,
		}).
		SetBody(invokeRequest{Method: method, Args: args}).
		SetResult(&result).
		SetError(&result).
		Post(fmt.Sprintf("/%s/query/chaincode", role))
	if err != nil {
		return nil, fmt.Errorf("fabric proxy unreachable: %w", err)
	}
	if resp.IsError() {
		if result.Message != "" {
			return nil, fmt.Errorf("chaincode %s failed: %s", method, result.Message)
		}
		return nil, fmt.Errorf("chaincode %s failed: %s", method, resp.Status())
	}

	return result.Response, nil
}

func (c *client) GetRecord(ctx context.Context, recordID string) (*domain.Record, error) {
	raw, err := c.query(ctx, "doctor", "getRecord", recordID)
	if err != nil {
		return nil, err
	}

	var record domain.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to parse record %s: %w", recordID, err)
	}
	return &record, nil
}

func (c *client) ListByPatient(ctx context.Context, patientID string) ([]domain.Record, error) {
	raw, err := c.query(ctx, "patient", "getRecordsByOwner", patientID)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse records for patient %s: %w", patientID, err)
	}
	return records, nil
}

func (c *client) ListByDoctor(ctx context.Context, doctorID string) ([]domain.Record, error) {
	raw, err := c.query(ctx, "doctor", "getAccessibleRecords", doctorID)
	if err != nil {
		return nil, err
	}

	var records []domain.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to parse records for doctor %s: %w", doctorID, err)
	}
	return records, nil
}

func (c *client) GrantAccess(ctx context.Context, recordID, doctorID string) error {
	_, err := c.invoke(ctx, "patient", "grantAccess", recordID, doctorID)
	return err
}

func (c *client) RevokeAccess(ctx context.Context, recordID, doctorID string) error {
	_, err := c.invoke(ctx, "patient", "revokeAccess", recordID, doctorID)
	return err
}
