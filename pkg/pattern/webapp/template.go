package webapp

// deploymentTemplate is rendered once per deployment. The ImageVersion,
// Region and StackVersion keys default to literal placeholder text that the
// orchestration tool's own rendering pass resolves later.
const deploymentTemplate = `
# basic information for generating and executing this definition
SenzaInfo:
  StackName: {{application_id}}
  Parameters:
    - ImageVersion:
        Description: "Docker image version of {{ application_id }}."

# a list of senza components to apply to the definition
SenzaComponents:

  # this basic configuration is required for the other components
  - Configuration:
      Type: Senza::StupsAutoConfiguration # auto-detect network setup

  # will create a launch configuration and auto scaling group with scaling triggers
  - AppServer:
      Type: Senza::TaupageAutoScalingGroup
      InstanceType: {{ instance_type }}
      SecurityGroups:
        - Stack: {{application_id}}-base-resources
          LogicalId: {{application_id_camel}}SecurityGroup
      IamRoles:
        - Stack: {{application_id}}-base-resources
          LogicalId: {{application_id_camel}}Role
      ElasticLoadBalancer: AppLoadBalancer
      AssociatePublicIpAddress: false # change for standalone deployment in default VPC
      TaupageConfig:
        application_version: "{{ImageVersion}}"
        runtime: Docker
        source: "{{ docker_image }}:{{ImageVersion}}"
        health_check_path: {{http_health_check_path}}
        ports:
          {{http_port}}: {{http_port}}
        {{#mint_bucket}}
        mint_bucket: "{{ mint_bucket }}"
        {{/mint_bucket}}

  # creates an ELB entry and Route53 domains to this ELB
  - AppLoadBalancer:
      Type: Senza::WeightedDnsElasticLoadBalancer
      HTTPPort: {{http_port}}
      HealthCheckPath: {{http_health_check_path}}
      SecurityGroups:
        - Stack: {{application_id}}-base-resources
          LogicalId: {{application_id_camel}}LoadBalancerSecurityGroup
      Scheme: {{loadbalancer_scheme}}
      Domains:
        MainDomain:
          Type: weighted
          Zone: "{{hosted_zone}}"
          Subdomain: {{application_id}}-{{Region}}
        VersionDomain:
          Type: standalone
          Zone: "{{hosted_zone}}"
          Subdomain: {{application_id}}-{{Region}}-{{StackVersion}}
`

// baseTemplate describes the per-region shared resources: the latency-based
// DNS record, the instance role, and the security groups every deployment
// of the application references.
const baseTemplate = `
SenzaInfo:
  StackName: {{application_id}}-base

Resources:
  {{application_id_camel}}RegionRecord:
    Type: AWS::Route53::RecordSet
    Properties:
      Type: CNAME
      TTL: 20
      HostedZoneName: "{{hosted_zone}}"
      Name: "{{application_id}}.{{hosted_zone}}"
      Region: "{{Region}}"
      SetIdentifier: "{{application_id}}-{{Region}}"
      ResourceRecords:
        - "{{application_id}}-{{Region}}.{{hosted_zone}}"
  {{application_id_camel}}Role:
    Type: AWS::IAM::Role
    Properties:
      AssumeRolePolicyDocument:
        Version: "2012-10-17"
        Statement:
        - Effect: Allow
          Principal:
            Service: ec2.amazonaws.com
          Action: sts:AssumeRole
      Path: /
      {{#mint_bucket}}
      Policies:
      - PolicyName: AllowMintRead
        PolicyDocument:
          Version: "2012-10-17"
          Statement:
          - Effect: Allow
            Action: "s3:GetObject"
            Resource: ["arn:aws:s3:::{{ mint_bucket }}/{{application_id}}/*"]
      {{/mint_bucket}}
  {{application_id_camel}}SecurityGroup:
    Type: AWS::EC2::SecurityGroup
    Properties:
      GroupDescription: "app-{{application_id}}"
      Tags:
        - Key: Name
          Value: app-{{application_id}}
      SecurityGroupIngress:
        - IpProtocol: tcp
          FromPort: 22
          ToPort: 22
          CidrIp: "0.0.0.0/0"
        - IpProtocol: tcp
          FromPort: 8080
          ToPort: 8080
          CidrIp: "0.0.0.0/0"
        - IpProtocol: tcp
          FromPort: 9100
          ToPort: 9100
          CidrIp: "0.0.0.0/0"
  {{application_id_camel}}LoadBalancerSecurityGroup:
    Type: AWS::EC2::SecurityGroup
    Properties:
      GroupDescription: "app-{{application_id}}-lb"
      Tags:
        - Key: Name
          Value: app-{{application_id}}-lb
      SecurityGroupIngress:
        - IpProtocol: tcp
          FromPort: 443
          ToPort: 443
          CidrIp: "0.0.0.0/0"
`
