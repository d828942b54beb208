package sqlinline

const QStatsSummary = `--sql 12e68bf1-96a6-42b7-a444-da58ad17ae5c
select
  (select count(*) from donations)::bigint,
  (select coalesce(sum(amount_int), 0) from donations)::bigint,
  (select count(*) from donations where created_at >= now() - interval '24 hours')::bigint,
  (select count(distinct campaign_id) from donations)::bigint;
`
