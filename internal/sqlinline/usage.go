package sqlinline

const QInsertUsageEvent = `--sql 7742625e-c776-4ba4-80b6-e61387030ead
insert into usage_events(id, user_id, request_id, event_type, success, latency_ms, created_at, properties)
values (gen_random_uuid(), $1::uuid, nullif($2::text, '')::uuid, $3::text, $4::boolean, $5::int, now(), coalesce($6::jsonb, '{}'::jsonb));
`
