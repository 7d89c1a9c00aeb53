package services

import (
	"context"
	"fmt"
	"strings"

	"phonexchange_backend/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSPublisher is the slice of the SNS client the notifier needs.
type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes a short text per lead to an SNS topic the shop
// subscribes its phone or inbox to.
type SNSNotifier struct {
	client   SNSPublisher
	topicARN string
}

func NewSNSNotifier(client SNSPublisher, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

// NewSNSNotifierFromEnv builds the client from the default AWS credential chain.
func NewSNSNotifierFromEnv(ctx context.Context, region, topicARN string) (*SNSNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewSNSNotifier(sns.NewFromConfig(cfg), topicARN), nil
}

func (n *SNSNotifier) Name() string {
	return "sns"
}

func (n *SNSNotifier) NotifyLead(ctx context.Context, lead models.Lead) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(fmt.Sprintf("New %s lead", lead.LeadType)),
		Message:  aws.String(leadMessage(lead)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"lead_type": {
				DataType:    aws.String("String"),
				StringValue: aws.String(lead.LeadType),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish failed: %w", err)
	}
	return nil
}

func leadMessage(lead models.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New %s lead from %s (%s), %s.", lead.LeadType, lead.Name, lead.Phone, lead.Area)
	if lead.PhoneModel != nil {
		fmt.Fprintf(&b, " Phone: %s.", *lead.PhoneModel)
	}
	if lead.OfferedPrice != nil {
		fmt.Fprintf(&b, " Offered: Rs %d.", *lead.OfferedPrice)
	}
	if lead.PreferredTime != "" {
		fmt.Fprintf(&b, " Preferred time: %s.", lead.PreferredTime)
	}
	if lead.Remarks != nil && *lead.Remarks != "" {
		fmt.Fprintf(&b, " Remarks: %s", *lead.Remarks)
	}
	return b.String()
}
