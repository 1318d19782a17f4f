package app

import (
	"context"
	"fmt"
	"io"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/drivetrain_computer/internal/config"
	customlog "github.com/relabs-tech/drivetrain_computer/internal/log"
)

// RunConsoleMQTT prints one pose line per pose message until ctx is done.
func RunConsoleMQTT(ctx context.Context, cfg *config.Config, logger customlog.Logger, out io.Writer) error {
	client, err := connectMQTT(cfg.MQTT.Broker, cfg.MQTT.ClientIDConsole, logger)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribePose(client, cfg.MQTT.TopicPose, logger, func(p PoseMessage) {
		fmt.Fprintln(out, p.Line())
	}); err != nil {
		return err
	}

	if cfg.Logging.Level == "debug" {
		token := client.Subscribe(cfg.MQTT.TopicCommand, 0, func(_ mqtt.Client, msg mqtt.Message) {
			logger.Debugf("[CMD] %s", msg.Payload())
		})
		if token.Wait() && token.Error() != nil {
			return token.Error()
		}
	}

	<-ctx.Done()
	logger.Infof("console: shutting down")
	return nil
}
