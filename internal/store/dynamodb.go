package store

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/rs/zerolog"

	"routeanalyzer/internal/model"
)

const timeLayout = time.RFC3339

// measurementItem is the wire shape of model.Measurement within a DynamoDB
// item. RTT fields are only populated when the probe received at least one
// reply, matching the upstream system's truthy-write convention.
type measurementItem struct {
	DestinationIP      string   `dynamodbav:"destinationIp"`
	PacketsTransmitted int      `dynamodbav:"packetsTransmitted"`
	PacketsReceived    int      `dynamodbav:"packetsReceived"`
	RTTMin             *float64 `dynamodbav:"roundTripMsMin,omitempty"`
	RTTAvg             *float64 `dynamodbav:"roundTripMsAvg,omitempty"`
	RTTMax             *float64 `dynamodbav:"roundTripMsMax,omitempty"`
	RTTStddev          *float64 `dynamodbav:"roundTripMsStddev,omitempty"`
}

// hostStatisticItem is the wire shape of model.HostStatistic. Host is the
// table's hash key; ipAddresses is written alongside the record whenever
// non-empty and the record is not itself keyed by an IP literal.
type hostStatisticItem struct {
	Host            string                     `dynamodbav:"host"`
	LastUpdated     string                     `dynamodbav:"lastUpdated"`
	IsIPAddress     bool                       `dynamodbav:"isIpAddress"`
	Central         *measurementItem           `dynamodbav:"central,omitempty"`
	Domestic        *measurementItem           `dynamodbav:"domestic,omitempty"`
	OtherContinents map[string]measurementItem `dynamodbav:"otherContinents,omitempty"`
	IPAddresses     []string                   `dynamodbav:"ipAddresses,omitempty"`
}

func toMeasurementItem(m *model.Measurement) *measurementItem {
	if m == nil {
		return nil
	}
	mi := &measurementItem{
		DestinationIP:      m.DestinationIP,
		PacketsTransmitted: m.PacketsTransmitted,
		PacketsReceived:    m.PacketsReceived,
	}
	if m.PacketsReceived > 0 {
		mi.RTTMin = aws.Float64(m.RTTMin)
		mi.RTTAvg = aws.Float64(m.RTTAvg)
		mi.RTTMax = aws.Float64(m.RTTMax)
		mi.RTTStddev = aws.Float64(m.RTTStddev)
	}
	return mi
}

func fromMeasurementItem(mi *measurementItem) *model.Measurement {
	if mi == nil {
		return nil
	}
	m := model.NewMeasurement(mi.DestinationIP, mi.PacketsTransmitted, mi.PacketsReceived)
	if mi.RTTMin != nil {
		m.RTTMin = *mi.RTTMin
	}
	if mi.RTTAvg != nil {
		m.RTTAvg = *mi.RTTAvg
	}
	if mi.RTTMax != nil {
		m.RTTMax = *mi.RTTMax
	}
	if mi.RTTStddev != nil {
		m.RTTStddev = *mi.RTTStddev
	}
	return m
}

func toItem(stat *model.HostStatistic) hostStatisticItem {
	item := hostStatisticItem{
		Host:        stat.Host,
		LastUpdated: stat.LastUpdated.UTC().Format(timeLayout),
		IsIPAddress: stat.IsIPAddress,
		Central:     toMeasurementItem(stat.Central),
		Domestic:    toMeasurementItem(stat.Domestic),
	}
	if len(stat.OtherContinents) > 0 {
		item.OtherContinents = make(map[string]measurementItem, len(stat.OtherContinents))
		for tag, m := range stat.OtherContinents {
			if mi := toMeasurementItem(m); mi != nil {
				item.OtherContinents[tag] = *mi
			}
		}
	}
	if !stat.IsIPAddress {
		ips := stat.IPAddresses()
		if len(ips) > 0 {
			item.IPAddresses = make([]string, 0, len(ips))
			for ip := range ips {
				item.IPAddresses = append(item.IPAddresses, ip)
			}
		}
	}
	return item
}

func fromItem(item hostStatisticItem) (*model.HostStatistic, error) {
	lastUpdated, err := time.Parse(timeLayout, item.LastUpdated)
	if err != nil {
		return nil, fmt.Errorf("parse lastUpdated %q: %w", item.LastUpdated, err)
	}

	stat := model.NewHostStatistic(item.Host, item.IsIPAddress, lastUpdated)
	stat.Central = fromMeasurementItem(item.Central)
	stat.Domestic = fromMeasurementItem(item.Domestic)
	for tag, mi := range item.OtherContinents {
		mi := mi
		stat.OtherContinents[tag] = fromMeasurementItem(&mi)
	}
	for region, m := range stat.Measurements() {
		if m.PacketsReceived > m.PacketsTransmitted {
			return nil, fmt.Errorf("invariant violation: host %q region %q received %d > transmitted %d",
				item.Host, region, m.PacketsReceived, m.PacketsTransmitted)
		}
	}
	return stat, nil
}

// dynamoAPI is the subset of *dynamodb.Client DynamoStore depends on,
// narrowed so tests can substitute a fake without standing up DynamoDB
// Local.
type dynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore is a HostStatisticStore backed by Amazon DynamoDB, keyed by
// host with a scanned secondary lookup over the derived ipAddresses set.
type DynamoStore struct {
	client    dynamoAPI
	tableName string
	logger    zerolog.Logger
}

// NewDynamoStore builds a DynamoStore for tableName in region using the
// default AWS credential chain.
func NewDynamoStore(ctx context.Context, region, tableName string, logger zerolog.Logger) (*DynamoStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return newDynamoStore(dynamodb.NewFromConfig(cfg), tableName, logger), nil
}

func newDynamoStore(client dynamoAPI, tableName string, logger zerolog.Logger) *DynamoStore {
	return &DynamoStore{
		client:    client,
		tableName: tableName,
		logger:    logger.With().Str("component", "host-store").Str("table", tableName).Logger(),
	}
}

// Exists reports exact-host membership via a consistent GetItem.
func (s *DynamoStore) Exists(ctx context.Context, host string) (bool, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:            aws.String(s.tableName),
		Key:                  map[string]types.AttributeValue{"host": &types.AttributeValueMemberS{Value: host}},
		ProjectionExpression: aws.String("host"),
		ConsistentRead:       aws.Bool(true),
	})
	if err != nil {
		return false, fmt.Errorf("dynamodb get item %q: %w", host, err)
	}
	return len(out.Item) > 0, nil
}

// IPExists scans for any record whose ipAddresses set contains ip.
func (s *DynamoStore) IPExists(ctx context.Context, ip string) (bool, error) {
	found := false
	err := s.scanByIP(ctx, ip, func(hostStatisticItem) bool {
		found = true
		return false
	})
	return found, err
}

// Find returns the record keyed by host, or (nil, nil) if absent.
func (s *DynamoStore) Find(ctx context.Context, host string) (*model.HostStatistic, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       map[string]types.AttributeValue{"host": &types.AttributeValueMemberS{Value: host}},
	})
	if err != nil {
		return nil, fmt.Errorf("dynamodb get item %q: %w", host, err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}

	var item hostStatisticItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return nil, fmt.Errorf("unmarshal item %q: %w", host, err)
	}
	return fromItem(item)
}

// FindByIP returns every record whose ipAddresses set contains ip.
func (s *DynamoStore) FindByIP(ctx context.Context, ip string) ([]*model.HostStatistic, error) {
	var results []*model.HostStatistic
	var convErr error
	err := s.scanByIP(ctx, ip, func(item hostStatisticItem) bool {
		stat, err := fromItem(item)
		if err != nil {
			convErr = err
			return false
		}
		results = append(results, stat)
		return true
	})
	if err != nil {
		return nil, err
	}
	if convErr != nil {
		return nil, convErr
	}
	return results, nil
}

// scanByIP issues a filtered Scan for contains(ipAddresses, ip), invoking
// visit for each matching item until visit returns false or the scan is
// exhausted.
func (s *DynamoStore) scanByIP(ctx context.Context, ip string, visit func(hostStatisticItem) bool) error {
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:        aws.String(s.tableName),
		FilterExpression: aws.String("contains(ipAddresses, :ip)"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ip": &types.AttributeValueMemberS{Value: ip},
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("dynamodb scan for ip %q: %w", ip, err)
		}
		for _, rawItem := range page.Items {
			var item hostStatisticItem
			if err := attributevalue.UnmarshalMap(rawItem, &item); err != nil {
				return fmt.Errorf("unmarshal scanned item: %w", err)
			}
			if !visit(item) {
				return nil
			}
		}
	}
	return nil
}

// Save upserts stat by its Host key via PutItem.
func (s *DynamoStore) Save(ctx context.Context, stat *model.HostStatistic) error {
	item := toItem(stat)

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("marshal item %q: %w", stat.Host, err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("dynamodb put item %q: %w", stat.Host, err)
	}

	s.logger.Debug().Str("host", stat.Host).Msg("saved host statistic")
	return nil
}
