package stack

import (
	"strconv"

	"github.com/lex00/n8n-aws-go/intrinsics"
	"github.com/lex00/n8n-aws-go/resources/ec2"
	"github.com/lex00/n8n-aws-go/resources/ecs"
	"github.com/lex00/n8n-aws-go/resources/elasticloadbalancingv2"
	"github.com/lex00/n8n-aws-go/resources/iam"
	"github.com/lex00/n8n-aws-go/resources/logs"
)

// Task sizing.
const (
	TaskCPU      = 512
	TaskMemory   = 1024
	DesiredCount = 1
)

func ecsTasksAssumeRole() intrinsics.PolicyDocument {
	return intrinsics.NewPolicyDocument(intrinsics.PolicyStatement{
		Effect:    "Allow",
		Principal: intrinsics.ServicePrincipal{"ecs-tasks.amazonaws.com"},
		Action:    "sts:AssumeRole",
	})
}

func allowAllEgress() []any {
	return []any{
		ec2.SecurityGroup_Egress{
			IpProtocol:  "-1",
			CidrIp:      AnyIPv4,
			Description: "Allow all outbound traffic by default",
		},
	}
}

// declareService declares the Fargate task and service, the internet-facing
// load balancer with its HTTPS listener and the target group between them.
func declareService(d *declarer, net network, env ContainerEnvironment) {
	d.add(LogGroup, logs.LogGroup{})

	d.add(TaskRole, iam.Role{
		AssumeRolePolicyDocument: ecsTasksAssumeRole(),
	})

	d.add(ExecutionRole, iam.Role{
		AssumeRolePolicyDocument: ecsTasksAssumeRole(),
		ManagedPolicyArns: []any{
			intrinsics.Sub{String: "arn:${AWS::Partition}:iam::aws:policy/service-role/AmazonECSTaskExecutionRolePolicy"},
		},
		Policies: []any{
			iam.Role_Policy{
				PolicyName: "N8nServiceExecutionSecrets",
				PolicyDocument: intrinsics.NewPolicyDocument(intrinsics.PolicyStatement{
					Effect:   "Allow",
					Action:   []any{"secretsmanager:GetSecretValue", "secretsmanager:DescribeSecret"},
					Resource: intrinsics.RefTo(DbSecret),
				}),
			},
		},
	})

	d.add(TaskDefinition, ecs.TaskDefinition{
		Family:                  intrinsics.Sub{String: "${AWS::StackName}-n8n"},
		Cpu:                     strconv.Itoa(TaskCPU),
		Memory:                  strconv.Itoa(TaskMemory),
		NetworkMode:             "awsvpc",
		RequiresCompatibilities: []any{"FARGATE"},
		ExecutionRoleArn:        intrinsics.Att(ExecutionRole, "Arn"),
		TaskRoleArn:             intrinsics.Att(TaskRole, "Arn"),
		ContainerDefinitions: []any{
			ecs.TaskDefinition_ContainerDefinition{
				Name:      ContainerName,
				Image:     Image,
				Essential: true,
				PortMappings: []any{
					ecs.TaskDefinition_PortMapping{ContainerPort: ContainerPort, Protocol: "tcp"},
				},
				Environment: env.KeyValuePairs(),
				Secrets: []any{
					ecs.TaskDefinition_Secret{
						Name:      "DB_POSTGRESDB_PASSWORD",
						ValueFrom: intrinsics.SecretKeyArn(DbSecret, "password"),
					},
				},
				LogConfiguration: ecs.TaskDefinition_LogConfiguration{
					LogDriver: "awslogs",
					Options: map[string]any{
						"awslogs-group":         intrinsics.RefTo(LogGroup),
						"awslogs-stream-prefix": Service,
						"awslogs-region":        intrinsics.AWS_REGION,
					},
				},
			},
		},
	})

	d.add(LoadBalancerSG, ec2.SecurityGroup{
		GroupDescription: "Security group for the n8n load balancer",
		VpcId:            intrinsics.RefTo(Vpc),
		SecurityGroupIngress: []any{
			ec2.SecurityGroup_Ingress{
				IpProtocol:  "tcp",
				CidrIp:      AnyIPv4,
				FromPort:    443,
				ToPort:      443,
				Description: "Allow from anyone on port 443",
			},
			ec2.SecurityGroup_Ingress{
				IpProtocol:  "tcp",
				CidrIp:      AnyIPv4,
				FromPort:    80,
				ToPort:      80,
				Description: "Allow from anyone on port 80",
			},
		},
		SecurityGroupEgress: allowAllEgress(),
		Tags:                nameTags(LoadBalancerSG),
	})

	d.add(LoadBalancer, elasticloadbalancingv2.LoadBalancer{
		Type:           "application",
		Scheme:         "internet-facing",
		Subnets:        net.publicRefs(),
		SecurityGroups: []any{intrinsics.Att(LoadBalancerSG, "GroupId")},
		LoadBalancerAttributes: []any{
			elasticloadbalancingv2.LoadBalancer_LoadBalancerAttribute{
				Key:   "deletion_protection.enabled",
				Value: "false",
			},
		},
		Tags: nameTags(LoadBalancer),
	}, PublicDefaultRoute)

	d.add(TargetGroup, elasticloadbalancingv2.TargetGroup{
		Port:            ContainerPort,
		Protocol:        "HTTP",
		TargetType:      "ip",
		VpcId:           intrinsics.RefTo(Vpc),
		HealthCheckPath: HealthCheck,
		Matcher:         elasticloadbalancingv2.TargetGroup_Matcher{HttpCode: "200"},
		TargetGroupAttributes: []any{
			elasticloadbalancingv2.TargetGroup_TargetGroupAttribute{
				Key:   "stickiness.enabled",
				Value: "false",
			},
		},
	})

	d.add(HttpsListener, elasticloadbalancingv2.Listener{
		LoadBalancerArn: intrinsics.RefTo(LoadBalancer),
		Port:            443,
		Protocol:        "HTTPS",
		Certificates: []any{
			elasticloadbalancingv2.Listener_Certificate{CertificateArn: intrinsics.RefTo(Certificate)},
		},
		DefaultActions: []any{
			elasticloadbalancingv2.Listener_Action{
				Type:           "forward",
				TargetGroupArn: intrinsics.RefTo(TargetGroup),
			},
		},
	})

	d.add(ServiceSecurityGroup, ec2.SecurityGroup{
		GroupDescription:    "Security group for the n8n Fargate service",
		VpcId:               intrinsics.RefTo(Vpc),
		SecurityGroupEgress: allowAllEgress(),
		Tags:                nameTags(ServiceSecurityGroup),
	})

	d.add(Service, ecs.Service{
		Cluster:                       intrinsics.RefTo(Cluster),
		TaskDefinition:                intrinsics.RefTo(TaskDefinition),
		DesiredCount:                  DesiredCount,
		LaunchType:                    "FARGATE",
		HealthCheckGracePeriodSeconds: 60,
		LoadBalancers: []any{
			ecs.Service_LoadBalancer{
				ContainerName:  ContainerName,
				ContainerPort:  ContainerPort,
				TargetGroupArn: intrinsics.RefTo(TargetGroup),
			},
		},
		NetworkConfiguration: ecs.Service_NetworkConfiguration{
			AwsvpcConfiguration: ecs.Service_AwsVpcConfiguration{
				AssignPublicIp: "DISABLED",
				Subnets:        net.privateRefs(),
				SecurityGroups: []any{intrinsics.Att(ServiceSecurityGroup, "GroupId")},
			},
		},
		DeploymentConfiguration: ecs.Service_DeploymentConfiguration{
			MaximumPercent:        200,
			MinimumHealthyPercent: 50,
		},
	}, HttpsListener, TaskRole)
}

// declareRedirectListener sends plain HTTP to HTTPS with a permanent redirect.
func declareRedirectListener(d *declarer) {
	d.add(HttpRedirectListener, elasticloadbalancingv2.Listener{
		LoadBalancerArn: intrinsics.RefTo(LoadBalancer),
		Port:            80,
		Protocol:        "HTTP",
		DefaultActions: []any{
			elasticloadbalancingv2.Listener_Action{
				Type: "redirect",
				RedirectConfig: elasticloadbalancingv2.Listener_RedirectConfig{
					Protocol:   "HTTPS",
					Port:       "443",
					StatusCode: "HTTP_301",
				},
			},
		},
	})
}
